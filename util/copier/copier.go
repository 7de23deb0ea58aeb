// Package copier makes deep copies of config values so cached results can be handed out safely.
package copier

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/jinzhu/copier"
	"github.com/stretchr/testify/assert"
)

// Clone returns deep copy of <inp>.
//
// If <inp> can not be copied, it is returned as is.
func Clone[T any](inp T) T {
	out, err := deep(inp)
	if err != nil {
		return inp
	}
	return out
}

// TDeep returns deep copy of <inp>, failing the test <t> if copier fails
func TDeep[T any](t *testing.T, inp T) T {
	out, err := deep(inp)
	assert.NoError(t, err, "should copy the source")
	return out
}

// deep returns deep copy of <inp>
func deep[T any](inp T) (out T, err error) {
	if err = copier.CopyWithOption(&out, &inp, copier.Option{DeepCopy: true}); err != nil {
		return out, errors.Wrap(err, "Deep copy")
	}
	return out, nil
}
