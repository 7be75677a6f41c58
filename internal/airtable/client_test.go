// GatherLens - Venue Marketing Analytics Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gatherlens

package airtable

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
)

func testTables() Tables {
	return Tables{
		Summary:  "tblSummary",
		Pages:    "tblPages",
		Sources:  "tblSources",
		Devices:  "tblDevices",
		Keywords: "tblKeywords",
	}
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("key123", "appBase", testTables(),
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithRateLimit(10000))
	return c, srv
}

func TestGetRecordsByDateFilters(t *testing.T) {
	var gotPath, gotFormula, gotAuth string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotFormula = r.URL.Query().Get("filterByFormula")
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(recordsResponse{
			Records: []Record{{ID: "rec1", Fields: map[string]interface{}{"date": "2026-08-28"}}},
		})
	}))

	records, err := c.GetRecordsByDate(context.Background(), TableSummary, "2026-08-28")
	if err != nil {
		t.Fatalf("GetRecordsByDate() error: %v", err)
	}

	if gotPath != "/appBase/tblSummary" {
		t.Errorf("path = %q, want /appBase/tblSummary", gotPath)
	}
	if gotFormula != "{date}='2026-08-28'" {
		t.Errorf("filterByFormula = %q", gotFormula)
	}
	if gotAuth != "Bearer key123" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if len(records) != 1 || records[0].ID != "rec1" {
		t.Errorf("unexpected records: %+v", records)
	}
}

func TestGetRecordsByDateRangeSortsDescending(t *testing.T) {
	var gotQuery map[string]string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"filterByFormula":    r.URL.Query().Get("filterByFormula"),
			"sort[0][field]":     r.URL.Query().Get("sort[0][field]"),
			"sort[0][direction]": r.URL.Query().Get("sort[0][direction]"),
		}
		_ = json.NewEncoder(w).Encode(recordsResponse{})
	}))

	if _, err := c.GetRecordsByDateRange(context.Background(), TablePages, "2026-08-01", "2026-08-29"); err != nil {
		t.Fatalf("GetRecordsByDateRange() error: %v", err)
	}

	if gotQuery["filterByFormula"] != "AND({date}>='2026-08-01', {date}<='2026-08-29')" {
		t.Errorf("filterByFormula = %q", gotQuery["filterByFormula"])
	}
	if gotQuery["sort[0][field]"] != "date" || gotQuery["sort[0][direction]"] != "desc" {
		t.Errorf("sort params = %v", gotQuery)
	}
}

func TestCreateRecordsChunksBatches(t *testing.T) {
	var batchSizes []int
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Records []Record `json:"records"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		batchSizes = append(batchSizes, len(body.Records))
		_ = json.NewEncoder(w).Encode(recordsResponse{Records: body.Records})
	}))

	fields := make([]map[string]interface{}, 23)
	for i := range fields {
		fields[i] = map[string]interface{}{"date": "2026-08-28", "n": i}
	}

	created, err := c.CreateRecords(context.Background(), TableKeywords, fields)
	if err != nil {
		t.Fatalf("CreateRecords() error: %v", err)
	}

	want := []int{10, 10, 3}
	if len(batchSizes) != len(want) {
		t.Fatalf("batches = %v, want %v", batchSizes, want)
	}
	for i, n := range want {
		if batchSizes[i] != n {
			t.Errorf("batch %d size = %d, want %d", i, batchSizes[i], n)
		}
	}
	if len(created) != 23 {
		t.Errorf("created = %d records, want 23", len(created))
	}
}

func TestDeleteRecordsByDate(t *testing.T) {
	var deleteCalls int
	var deletedIDs []string

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			var records []Record
			for i := 0; i < 12; i++ {
				records = append(records, Record{ID: fmt.Sprintf("rec%d", i)})
			}
			_ = json.NewEncoder(w).Encode(recordsResponse{Records: records})
		case http.MethodDelete:
			deleteCalls++
			deletedIDs = append(deletedIDs, r.URL.Query()["records[]"]...)
			_ = json.NewEncoder(w).Encode(recordsResponse{})
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))

	n, err := c.DeleteRecordsByDate(context.Background(), TableDevices, "2026-08-28")
	if err != nil {
		t.Fatalf("DeleteRecordsByDate() error: %v", err)
	}
	if n != 12 {
		t.Errorf("deleted = %d, want 12", n)
	}
	if deleteCalls != 2 {
		t.Errorf("delete calls = %d, want 2 (batches of 10)", deleteCalls)
	}
	if len(deletedIDs) != 12 {
		t.Errorf("deleted IDs = %d, want 12", len(deletedIDs))
	}
}

func TestDeleteRecordsByDateNoMatches(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected %s call for empty date", r.Method)
		}
		_ = json.NewEncoder(w).Encode(recordsResponse{})
	}))

	n, err := c.DeleteRecordsByDate(context.Background(), TableSummary, "2026-08-28")
	if err != nil {
		t.Fatalf("DeleteRecordsByDate() error: %v", err)
	}
	if n != 0 {
		t.Errorf("deleted = %d, want 0", n)
	}
}

func TestUpsertByDateDeletesThenCreates(t *testing.T) {
	var order []string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			order = append(order, "list")
			_ = json.NewEncoder(w).Encode(recordsResponse{Records: []Record{{ID: "old1"}, {ID: "old2"}}})
		case http.MethodDelete:
			order = append(order, "delete")
			_ = json.NewEncoder(w).Encode(recordsResponse{})
		case http.MethodPost:
			order = append(order, "create")
			_ = json.NewEncoder(w).Encode(recordsResponse{Records: []Record{{ID: "new1"}}})
		}
	}))

	result, err := c.UpsertByDate(context.Background(), TableSummary, "2026-08-28",
		[]map[string]interface{}{{"date": "2026-08-28", "totalUsers": 10}})
	if err != nil {
		t.Fatalf("UpsertByDate() error: %v", err)
	}

	if result.Created != 1 || result.Deleted != 2 || result.Updated != 0 {
		t.Errorf("result = %+v, want created=1 deleted=2 updated=0", result)
	}

	wantOrder := []string{"list", "delete", "create"}
	if len(order) != len(wantOrder) {
		t.Fatalf("order = %v, want %v", order, wantOrder)
	}
	for i, op := range wantOrder {
		if order[i] != op {
			t.Errorf("operation %d = %s, want %s", i, order[i], op)
		}
	}
}

func TestRequestNotConfigured(t *testing.T) {
	c := NewClient("", "", testTables())

	if _, err := c.GetRecordsByDate(context.Background(), TableSummary, "2026-08-28"); err != ErrNotConfigured {
		t.Fatalf("error = %v, want ErrNotConfigured", err)
	}
}

func TestRequestUnknownTable(t *testing.T) {
	c := NewClient("key", "base", Tables{Summary: "tblSummary"})

	if _, err := c.GetRecordsByDate(context.Background(), Table("bogus"), "2026-08-28"); err == nil {
		t.Fatal("expected error for unknown table")
	}
	if _, err := c.GetRecordsByDate(context.Background(), TablePages, "2026-08-28"); err == nil {
		t.Fatal("expected error for table without a configured ID")
	}
}

func TestRequestErrorStatus(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"type":"INVALID_FILTER_BY_FORMULA"}}`))
	}))

	if _, err := c.GetRecordsByDate(context.Background(), TableSummary, "2026-08-28"); err == nil {
		t.Fatal("expected error for 422 response")
	}
}
