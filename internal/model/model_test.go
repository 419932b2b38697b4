package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableNames(t *testing.T) {
	tests := []struct {
		name     string
		model    interface{ TableName() string }
		expected string
	}{
		{"DocumentRecord", &DocumentRecord{}, "documents"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.model.TableName())
		})
	}
}

func TestDatabaseModelsHaveTableNames(t *testing.T) {
	for _, m := range DatabaseModels {
		_, ok := m.(interface{ TableName() string })
		assert.True(t, ok, "%T", m)
	}
}
