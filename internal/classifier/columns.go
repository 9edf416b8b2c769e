package classifier

import (
	"github.com/elliotchance/orderedmap/v2"

	"github.com/dbsmedya/dqprofile/internal/matcher"
	"github.com/dbsmedya/dqprofile/internal/table"
)

// IsValidPhoneColumn reports whether the share of populated values that are
// both phone shaped and valid for the region clears the threshold.
func IsValidPhoneColumn(cells []table.Cell, opts Options) bool {
	opts = opts.normalized()
	validator := matcher.NewPhoneValidator(opts.PhoneRegion)

	total, valid := 0, 0
	for _, c := range cells {
		if !c.HasValue() {
			continue
		}
		total++
		if validator.Matches(c.Trimmed()) {
			valid++
		}
	}
	if total == 0 {
		return false
	}
	return ratio(valid, total) >= opts.Threshold
}

// CountDateFormats counts the distinct date signatures used across every
// column classified as a date.
func CountDateFormats(t *table.Table, classified *orderedmap.OrderedMap[string, ClassifiedColumn]) int {
	layouts := matcher.DateLayouts()
	formats := make(map[string]struct{})

	for el := classified.Front(); el != nil; el = el.Next() {
		if el.Value.Type != matcher.TypeDate {
			continue
		}
		col, ok := t.Column(el.Key)
		if !ok {
			continue
		}
		for _, v := range CleanValues(col.Cells) {
			if sig, ok := matcher.DateSignature(v, layouts); ok {
				formats[sig] = struct{}{}
			}
		}
	}
	return len(formats)
}
