package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"github.com/dbsmedya/dqprofile/internal/logger"
	"github.com/dbsmedya/dqprofile/internal/store"
)

type fakeWriteStatus map[string]error

func (f fakeWriteStatus) IsWriting(_ context.Context, token string) (bool, error) {
	err, ok := f[token]
	return ok && err == nil, err
}

func TestPrintReports(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	summaries := []store.ReportSummary{
		{Token: "busy", Name: "contacts.csv", GeneratedAt: at, TotalRecords: 10, TotalFields: 6, FieldsWithIssues: 3},
		{Token: "idle", Name: "deals.csv", GeneratedAt: at, TotalRecords: 4, TotalFields: 2},
		{Token: "broken", Name: "leads.csv", GeneratedAt: at, TotalRecords: 1, TotalFields: 1},
	}
	status := fakeWriteStatus{"busy": nil, "broken": errors.New("gone away")}

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	printReports(context.Background(), cmd, summaries, status, logger.NewNop())

	out := buf.String()
	assert.Contains(t, out, "1. contacts.csv")
	assert.Contains(t, out, "Issues:    3 of 6 fields")
	assert.Contains(t, out, "3. leads.csv")
	assert.Equal(t, 1, strings.Count(out, "writing in progress"))
	assert.Less(t, strings.Index(out, "writing in progress"), strings.Index(out, "2. deals.csv"))
}
