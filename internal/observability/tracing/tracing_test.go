package tracing

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestSafeAttributesDropsIdentity(t *testing.T) {
	attrs := SafeAttributes(
		attribute.String("http.route", "/api/v1/reports/stores"),
		attribute.String("owner_id", "kim@example.com"),
		attribute.String("store_name", "Cafe"),
	)
	assert.Len(t, attrs, 1)
	assert.Equal(t, attribute.Key("http.route"), attrs[0].Key)
}

func TestSafeErrorKeepsOutermostMessage(t *testing.T) {
	err := fmt.Errorf("load stores: %w", errors.New("dial tcp 10.0.0.1:5432: refused"))
	assert.EqualError(t, SafeError(err), "load stores")
	assert.Nil(t, SafeError(nil))
}
