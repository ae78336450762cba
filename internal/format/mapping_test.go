package format

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/implkit/internal/core/domain"
)

func asMap(r *domain.Record) map[string]any {
	out := make(map[string]any, r.Len())
	for _, k := range r.Keys() {
		v, _ := r.Get(k)
		out[k] = v
	}
	return out
}

func TestMapFields_AddCustomer(t *testing.T) {
	records := []*domain.Record{
		domain.RecordOf("Name", "Acme", "industry", "Retail"),
	}

	mapped := MapFields(records, domain.TargetAddCustomer)
	require.NotNil(t, mapped)

	assert.Equal(t, domain.TargetAddCustomer.ExpectedFields(), mapped.Keys())
	want := map[string]any{
		"name":         "Acme",
		"industry":     "Retail",
		"region":       nil,
		"contactName":  "Acme",
		"contactEmail": nil,
		"goLiveDate":   nil,
		"notes":        nil,
	}
	if diff := cmp.Diff(want, asMap(mapped)); diff != "" {
		t.Errorf("mapped fields mismatch (-want +got):\n%s", diff)
	}
}

func TestMapFields_ExactMatchBeatsSubstring(t *testing.T) {
	records := []*domain.Record{
		domain.RecordOf("customerName", "substring", "NAME", "exact"),
	}

	mapped := MapFields(records, domain.TargetAddCustomer)
	name, _ := mapped.Get("name")
	assert.Equal(t, "exact", name)
}

func TestMapFields_SubstringBothDirections(t *testing.T) {
	records := []*domain.Record{
		domain.RecordOf(
			"env_url", "https://uat.example.com",
			"Type", "uat",
			"ver", "10.0.38",
		),
	}

	mapped := MapFields(records, domain.TargetAddEnvironment)
	got := asMap(mapped)

	assert.Equal(t, "https://uat.example.com", got["url"])
	assert.Equal(t, "uat", got["type"])
	assert.Equal(t, "10.0.38", got["version"])
	assert.Nil(t, got["customerId"])
}

func TestMapFields_FirstRecordOnly(t *testing.T) {
	records := []*domain.Record{
		domain.RecordOf("status", "done"),
		domain.RecordOf("owner", "bob"),
	}

	mapped := MapFields(records, domain.TargetUpdateChecklistItem)
	owner, ok := mapped.Get("owner")
	assert.True(t, ok)
	assert.Nil(t, owner)
}

func TestMapFields_NotApplicable(t *testing.T) {
	rec := []*domain.Record{domain.RecordOf("a", 1)}

	assert.Nil(t, MapFields(rec, domain.TargetNone))
	assert.Nil(t, MapFields(rec, domain.TargetExportRecords))
	assert.Nil(t, MapFields(nil, domain.TargetAddCustomer))
}

func TestMapFields_EmptyKeyIgnored(t *testing.T) {
	mapped := MapFields([]*domain.Record{domain.RecordOf("", "x")}, domain.TargetAddCustomer)
	name, _ := mapped.Get("name")
	assert.Nil(t, name)
}
