package contact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	got := Message{Name: "  Ann ", Email: "\ta@b.c\n", Message: " hi "}.Normalize()
	assert.Equal(t, Message{Name: "Ann", Email: "a@b.c", Message: "hi"}, got)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want error
	}{
		{"valid", Message{Name: "Ann", Email: "a@b.c", Message: "hi"}, nil},
		{"missing name", Message{Email: "a@b.c", Message: "hi"}, ErrMissingFields},
		{"missing email", Message{Name: "Ann", Message: "hi"}, ErrMissingFields},
		{"missing message", Message{Name: "Ann", Email: "a@b.c"}, ErrMissingFields},
		{"whitespace only after normalize", Message{Name: "   ", Email: "a@b.c", Message: "hi"}.Normalize(), ErrMissingFields},
		{"no at sign", Message{Name: "Ann", Email: "not-an-email", Message: "hi"}, ErrInvalidEmail},
		{"no dot", Message{Name: "Ann", Email: "a@b", Message: "hi"}, ErrInvalidEmail},
		{"dot before at is enough", Message{Name: "Ann", Email: "a.b@c", Message: "hi"}, nil},
		{"missing fields wins over bad email", Message{Name: "", Email: "bad", Message: "hi"}, ErrMissingFields},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.msg.Validate(), tt.want)
		})
	}
}
