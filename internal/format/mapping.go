package format

import (
	"strings"

	"github.com/custodia-labs/implkit/internal/core/domain"
)

// MapFields reconciles the first record against the expected fields of
// target. Each expected field takes the value of the first key matching
// case-insensitively, else the first key containing it or contained in
// it. Unmatched fields are present with a nil value. It returns nil when
// the target has no field list or there are no records.
func MapFields(records []*domain.Record, target domain.TargetTool) *domain.Record {
	expected := target.ExpectedFields()
	if len(expected) == 0 || len(records) == 0 {
		return nil
	}

	src := records[0]
	keys := src.Keys()
	mapped := domain.NewRecord()
	for _, field := range expected {
		key, ok := matchKey(field, keys)
		if !ok {
			mapped.Set(field, nil)
			continue
		}
		v, _ := src.Get(key)
		mapped.Set(field, v)
	}
	return mapped
}

func matchKey(field string, keys []string) (string, bool) {
	want := strings.ToLower(field)
	for _, k := range keys {
		if strings.ToLower(k) == want {
			return k, true
		}
	}
	for _, k := range keys {
		lk := strings.ToLower(k)
		if lk == "" {
			continue
		}
		if strings.Contains(want, lk) || strings.Contains(lk, want) {
			return k, true
		}
	}
	return "", false
}
