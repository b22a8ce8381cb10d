package membership

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasUserUUID(t *testing.T) {
	assert.True(t, HasUserUUID(&SessionObject{UserID: "c0f1f569-4a55-43a4-8b5f-16bda8e5e63e"}))
	assert.False(t, HasUserUUID(&SessionObject{UserID: "lex"}))
	assert.False(t, HasUserUUID(&SessionObject{}))
	assert.False(t, HasUserUUID(nil))
}
