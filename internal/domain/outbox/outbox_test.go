package outbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type plain struct{}

func (plain) EventName() string { return "plain" }

type keyed struct{ id string }

func (keyed) EventName() string  { return "keyed" }
func (k keyed) EventKey() string { return k.id }

func TestKeyOf(t *testing.T) {
	assert.Equal(t, "ord-9", KeyOf(keyed{id: "ord-9"}))
	assert.Empty(t, KeyOf(plain{}))
}

func TestBatchAddSkipsNil(t *testing.T) {
	var b Batch
	b.Add(plain{}, nil, keyed{id: "x"})
	b.Add()
	assert.Len(t, b, 2)
	assert.Equal(t, "keyed", b[1].EventName())
}
