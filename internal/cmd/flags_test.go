package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitListDropsEmptyEntries(t *testing.T) {
	// the original tool shipped defaults with trailing commas; they must
	// not become empty list entries
	assert.Equal(t, []string{"admin"}, splitList("admin,"))
	assert.Equal(t, []string{"admin", "inventory admin"}, splitList("admin, inventory admin"))
	assert.Nil(t, splitList(""))
	assert.Nil(t, splitList(",,"))
}

func TestFlagEnumRejectsUnknownValues(t *testing.T) {
	enum := NewEnum([]string{"json", "yaml", "text"}, "text")

	assert.NoError(t, enum.Set("json"))
	assert.Equal(t, "json", enum.String())

	err := enum.Set("xml")
	assert.Error(t, err)
	assert.Equal(t, "json", enum.String())
}
