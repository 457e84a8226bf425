package device

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/instrlab/go-visim/prop"
)

func TestResourceClass(t *testing.T) {
	require := require.New(t)

	tests := []struct {
		description string
		resource    string
		expected    string
	}{
		{"serial instrument", "ASRL1::INSTR", "ASRL INSTR"},
		{"usb instrument", "USB0::0x1111::0x2222::0x1234::0::INSTR", "USB INSTR"},
		{"tcpip socket", "TCPIP0::localhost::10001::SOCKET", "TCPIP SOCKET"},
		{"tcpip instrument", "TCPIP0::localhost::inst0::INSTR", "TCPIP INSTR"},
		{"gpib instrument", "GPIB0::8::INSTR", "GPIB INSTR"},
		{"class defaults to INSTR", "ASRL2", "ASRL INSTR"},
		{"lowercase interface", "asrl3::instr", "ASRL INSTR"},
	}
	for i, test := range tests {
		t.Logf("Test #%d: %s", i, test.description)
		require.Equal(test.expected, ResourceClass(test.resource))
	}
}

func newTestDevice(t *testing.T) *Device {
	t.Helper()
	require := require.New(t)

	d := NewDevice("device 1")
	require.NoError(d.SetEOM("ASRL INSTR", `\r`, `\n`))
	d.AddError(CommandError, TextResponse("ERROR"))
	d.AddDialogue("*IDN?", TextResponse("SIM,DEVICE,1.0"))
	d.AddDialogue("*RST", NoResponse)

	err := d.AddProperty("freq", "1000", prop.Specs{Type: "float", Min: prop.Bound("0")})
	require.NoError(err)
	require.NoError(d.AddGetter("FREQ?", "freq", "{:.2f}"))
	require.NoError(d.AddSetter("freq", "FREQ {:f}", TextResponse("OK"), Response{}))

	require.NoError(d.PrepareResource("ASRL1::INSTR"))

	return d
}

func TestDevice_WriteRead(t *testing.T) {
	require := require.New(t)
	d := newTestDevice(t)

	d.Write([]byte("*IDN?\r"))
	require.Equal([]byte("SIM,DEVICE,1.0\n"), d.Read(64))
	require.Equal(0, d.Pending())
}

func TestDevice_PartialWrites(t *testing.T) {
	require := require.New(t)
	d := newTestDevice(t)

	// Nothing happens until the query terminator arrives.
	d.Write([]byte("*ID"))
	require.Equal(0, d.Pending())

	d.Write([]byte("N?\r"))
	require.Equal([]byte("SIM,DEVICE,1.0\n"), d.Read(64))
}

func TestDevice_MultipleQueriesInOneWrite(t *testing.T) {
	require := require.New(t)
	d := newTestDevice(t)

	d.Write([]byte("FREQ 2500\rFREQ?\r"))
	require.Equal([]byte("OK\n2500.00\n"), d.Read(64))
}

func TestDevice_ReadDrainsInChunks(t *testing.T) {
	require := require.New(t)
	d := newTestDevice(t)

	d.Write([]byte("*IDN?\r"))
	require.Equal([]byte("SIM"), d.Read(3))
	require.Equal([]byte(",DEVICE,1.0\n"), d.Read(64))
	require.Nil(d.Read(64))
}

func TestDevice_UnmatchedQueryAnswersCommandError(t *testing.T) {
	require := require.New(t)
	d := newTestDevice(t)

	d.Write([]byte("BOGUS?\r"))
	require.Equal([]byte("ERROR\n"), d.Read(64))
}

func TestDevice_NoResponseEmitsNothing(t *testing.T) {
	require := require.New(t)
	d := newTestDevice(t)

	d.Write([]byte("*RST\r"))
	require.Equal(0, d.Pending())

	// The device is still responsive afterwards.
	d.Write([]byte("FREQ?\r"))
	require.Equal([]byte("1000.00\n"), d.Read(64))
}

func TestDevice_PrepareResource(t *testing.T) {
	require := require.New(t)

	d := NewDevice("dev")
	require.NoError(d.SetEOM("USB INSTR", `\n`, `\n`))

	require.NoError(d.PrepareResource("USB0::0x1111::0x2222::0x1234::0::INSTR"))
	require.ErrorIs(d.PrepareResource("GPIB0::8::INSTR"), ErrNoTerminator)

	// The empty class acts as the fallback pair.
	require.NoError(d.SetEOM("", `\r`, `\r\n`))
	require.NoError(d.PrepareResource("GPIB0::8::INSTR"))
}

func TestDevice_SetEOMRejectsEmptyQueryTerminator(t *testing.T) {
	require := require.New(t)

	d := NewDevice("dev")
	require.ErrorIs(d.SetEOM("ASRL INSTR", "", `\n`), ErrEmptyTerminator)

	// The built-in newline pair is untouched, so framing still works.
	d.AddDialogue("*IDN?", TextResponse("SIM"))
	d.Write([]byte("*IDN?\n"))
	require.Equal([]byte("SIM\n"), d.Read(64))
}

func TestDevice_ErrorResponse(t *testing.T) {
	require := require.New(t)

	d := NewDevice("dev")
	d.AddError("query_error", TextResponse("QERR"))

	require.Equal([]byte("QERR"), d.ErrorResponse("query_error").Bytes())
	require.True(d.ErrorResponse("undefined_error").IsNoResponse())
}

func newChannelDevice(t *testing.T, canSelect bool) (*Device, *Channels) {
	t.Helper()
	require := require.New(t)

	d := NewDevice("scope")
	d.AddError(CommandError, TextResponse("ERROR"))

	ch := NewChannels(d, "channel", []string{"1", "2", "3"}, canSelect)
	err := ch.AddProperty("voltage", "0.0", prop.Specs{
		Type: "float",
		Min:  prop.Bound("0"),
		Max:  prop.Bound("10"),
	})
	require.NoError(err)
	require.NoError(ch.AddGetter("CH {ch_id}:VOLT?", "voltage", "{:.1f}"))
	require.NoError(ch.AddSetter("voltage", "CH {ch_id}:VOLT {:f}", TextResponse("OK"), Response{}))
	ch.AddDialogue("CH {ch_id}:ID?", TextResponse("channel {ch_id}"))

	return d, ch
}

func TestChannels_PerChannelState(t *testing.T) {
	require := require.New(t)
	d, _ := newChannelDevice(t, false)

	require.Equal([]byte("OK"), d.Match([]byte("CH 2:VOLT 5")).Bytes())
	require.Equal([]byte("5.0"), d.Match([]byte("CH 2:VOLT?")).Bytes())

	// Channel 1 keeps its own value.
	require.Equal([]byte("0.0"), d.Match([]byte("CH 1:VOLT?")).Bytes())

	// The channel id is substituted into dialogue responses too.
	require.Equal([]byte("channel 3"), d.Match([]byte("CH 3:ID?")).Bytes())
}

func TestChannels_SetterErrorFallsBackToDevice(t *testing.T) {
	require := require.New(t)
	d, _ := newChannelDevice(t, false)

	require.Equal([]byte("ERROR"), d.Match([]byte("CH 1:VOLT 99")).Bytes())
	require.Equal([]byte("0.0"), d.Match([]byte("CH 1:VOLT?")).Bytes())
}

func TestChannels_Selection(t *testing.T) {
	require := require.New(t)
	d, ch := newChannelDevice(t, true)

	// Nothing selected yet: the group answers for no id at all.
	require.True(d.Match([]byte("CH 1:VOLT?")).IsNoMatch())

	require.NoError(ch.Select("1", "3"))
	require.Equal([]byte("0.0"), d.Match([]byte("CH 1:VOLT?")).Bytes())
	require.Equal([]byte("0.0"), d.Match([]byte("CH 3:VOLT?")).Bytes())
	require.True(d.Match([]byte("CH 2:VOLT?")).IsNoMatch())

	require.ErrorIs(ch.Select("7"), ErrUnknownChannel)

	// Selection replaces the previous set.
	require.NoError(ch.Select("2"))
	require.True(d.Match([]byte("CH 1:VOLT?")).IsNoMatch())
	require.Equal([]byte("0.0"), d.Match([]byte("CH 2:VOLT?")).Bytes())
}

func TestChannels_DefinitionErrors(t *testing.T) {
	require := require.New(t)
	d := NewDevice("scope")
	ch := NewChannels(d, "channel", []string{"1"}, false)

	require.ErrorIs(ch.AddGetter("CH {ch_id}:V?", "missing", "{}"), ErrUnknownProperty)
	require.ErrorIs(ch.AddSetter("missing", "CH {ch_id}:V {:f}", TextResponse("OK"), Response{}), ErrUnknownProperty)

	require.NoError(ch.AddProperty("v", "0", prop.Specs{Type: "int"}))
	require.ErrorIs(ch.AddProperty("v", "0", prop.Specs{Type: "int"}), ErrDuplicateProperty)
}

func TestDevice_MatchChecksOwnTablesFirst(t *testing.T) {
	require := require.New(t)
	d, _ := newChannelDevice(t, false)

	// A device-level dialogue shadows any channel entry with the same query.
	d.AddDialogue("CH 1:VOLT?", TextResponse("DEVICE"))
	require.Equal([]byte("DEVICE"), d.Match([]byte("CH 1:VOLT?")).Bytes())
}
