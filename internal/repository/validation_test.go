package repository_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/maxviazov/dispensing-data-access/internal/model"
	"github.com/maxviazov/dispensing-data-access/internal/repository"
)

func fieldSet(err error) map[string]string {
	out := map[string]string{}
	for _, fe := range repository.FieldErrors(err) {
		out[fe.Field] = fe.Message
	}
	return out
}

func TestValidate_ActionContext(t *testing.T) {
	if err := repository.Validate(model.NewActionContext(uuid.New(), nil, time.Now())); err != nil {
		t.Fatalf("valid context rejected: %v", err)
	}
	err := repository.Validate(model.ActionContext{})
	if !errors.Is(err, repository.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	got := fieldSet(err)
	for _, f := range []string{"actor_key", "utc_now", "local_now"} {
		if got[f] != "is required" {
			t.Errorf("field %s: got %q", f, got[f])
		}
	}
}

func TestValidate_Server(t *testing.T) {
	cases := []struct {
		name   string
		server model.Server
		field  string
	}{
		{"valid_ip", model.Server{ServerName: "db1", HostAddress: "10.1.2.3", ServerType: model.ServerTypeDatabase}, ""},
		{"valid_host", model.Server{ServerName: "app", HostAddress: "app.ward-3.local", ServerType: model.ServerTypeApplication}, ""},
		{"missing_name", model.Server{HostAddress: "10.1.2.3", ServerType: model.ServerTypeDatabase}, "server_name"},
		{"bad_host", model.Server{ServerName: "x", HostAddress: "not a host", ServerType: model.ServerTypeDatabase}, "host_address"},
		{"bad_type", model.Server{ServerName: "x", HostAddress: "10.1.2.3", ServerType: "mainframe"}, "server_type"},
		{"long_name", model.Server{ServerName: strings.Repeat("s", 101), HostAddress: "10.1.2.3", ServerType: model.ServerTypeDatabase}, "server_name"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := repository.Validate(tc.server)
			if tc.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if _, ok := fieldSet(err)[tc.field]; !ok {
				t.Fatalf("expected error on %s, got %v", tc.field, err)
			}
		})
	}
}

func TestValidate_InventoryQuantity(t *testing.T) {
	base := model.InventoryTransaction{
		DispensingDeviceKey: uuid.New(),
		ItemKey:             uuid.New(),
		Type:                model.TransactionIssue,
		UnitOfMeasure:       "mL",
	}
	cases := []struct {
		name    string
		typ     string
		qty     string
		wantMsg string
	}{
		{"positive", model.TransactionIssue, "1.25", ""},
		{"four_places", model.TransactionWaste, "0.0001", ""},
		{"five_places", model.TransactionWaste, "0.00001", "must be non-negative with at most 4 decimal places"},
		{"negative", model.TransactionReturn, "-1", "must be non-negative with at most 4 decimal places"},
		{"zero_issue", model.TransactionIssue, "0", "must not be zero"},
		{"zero_count", model.TransactionCount, "0", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := base
			tx.Type = tc.typ
			tx.Quantity = decimal.RequireFromString(tc.qty)
			err := repository.Validate(tx)
			if tc.wantMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if got := fieldSet(err)["quantity"]; got != tc.wantMsg {
				t.Fatalf("quantity message %q, want %q (err %v)", got, tc.wantMsg, err)
			}
		})
	}
}

func TestRequireKeyAndName(t *testing.T) {
	if err := repository.RequireKey("key", uuid.Nil); !errors.Is(err, repository.ErrInvalidInput) {
		t.Fatalf("nil key accepted: %v", err)
	}
	if err := repository.RequireKey("key", uuid.New()); err != nil {
		t.Fatalf("key rejected: %v", err)
	}
	if err := repository.RequireName("name", "  "); !errors.Is(err, repository.ErrInvalidInput) {
		t.Fatalf("blank name accepted: %v", err)
	}
	if err := repository.RequireName("name", "Oral"); err != nil {
		t.Fatalf("name rejected: %v", err)
	}
}

func TestNewInvalidInput_Empty(t *testing.T) {
	if err := repository.NewInvalidInput(); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
