package scanf

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/instrlab/go-visim/prop"
)

func TestTemplate_Format(t *testing.T) {
	require := require.New(t)

	tests := []struct {
		description string
		template    string
		value       prop.Value
		expected    string
	}{
		{"fixed precision float", "{:.2f}", prop.FloatValue(1000), "1000.00"},
		{"float with surrounding text", "FREQ {:.1f} HZ", prop.FloatValue(2.25), "FREQ 2.2 HZ"},
		{"zero padded float", "{:05.1f}", prop.FloatValue(3.14), "003.1"},
		{"uppercase fixed verb", "{:.1F}", prop.FloatValue(2.5), "2.5"},
		{"scientific", "{:.2e}", prop.FloatValue(1500), "1.50e+03"},
		{"integer", "{:d}", prop.IntValue(42), "42"},
		{"signed integer", "{:+d}", prop.IntValue(5), "+5"},
		{"integer widened to float verb", "{:.2f}", prop.IntValue(7), "7.00"},
		{"hex", "{:x}", prop.IntValue(255), "ff"},
		{"string verb", "{:s}", prop.StringValue("AUTO"), "AUTO"},
		{"default rendering float", "{}", prop.FloatValue(2500), "2500"},
		{"default rendering string", "{}", prop.StringValue("OFF"), "OFF"},
		{"default rendering padded", "{:5}", prop.StringValue("ab"), "   ab"},
		{"escaped braces", "{{{}}}", prop.IntValue(1), "{1}"},
	}
	for i, test := range tests {
		t.Logf("Test #%d: %s", i, test.description)
		tmpl, err := CompileTemplate(test.template)
		require.NoError(err)
		require.Equal(test.expected, tmpl.Format(test.value))
		require.Equal(test.template, tmpl.String())
	}
}

func TestCompileTemplate_Errors(t *testing.T) {
	require := require.New(t)

	_, err := CompileTemplate("{:z}")
	require.ErrorIs(err, ErrSyntax)

	_, err = CompileTemplate("value {")
	require.ErrorIs(err, ErrSyntax)

	require.Panics(func() { MustCompileTemplate("{:z}") })
}
