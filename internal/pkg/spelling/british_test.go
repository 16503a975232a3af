package spelling

import (
	"testing"

	"github.com/airenas/minutego/internal/pkg/api"
	"github.com/stretchr/testify/assert"
)

func TestToBritish(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "   ", want: "   "},
		{in: "The color is gray.", want: "The colour is grey."},
		{in: "Color", want: "Colour"},
		{in: "COLOR", want: "COLOUR"},
		{in: "We will organize, analyze and summarize!", want: "We will organise, analyse and summarise!"},
		{in: "keep `color` as is", want: "keep `color` as is"},
		{in: "no change here 123", want: "no change here 123"},
		{in: "colorful", want: "colorful"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ToBritish(tt.in))
		})
	}
}

func TestEntries(t *testing.T) {
	in := []api.DialogueEntry{{Speaker: "0", Text: "my favorite color", StartTime: 1, EndTime: 2}}
	res := Entries(in)
	assert.Equal(t, "my favourite colour", res[0].Text)
	assert.Equal(t, 2.0, res[0].EndTime)
	assert.Equal(t, "my favorite color", in[0].Text)
	assert.Nil(t, Entries(nil))
}
