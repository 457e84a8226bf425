package sim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSimulator_LoadDefault(t *testing.T) {
	require := require.New(t)

	s := New()
	require.NoError(s.LoadDefault())
	require.Len(s.Resources(), 5)

	d, ok := s.Device("ASRL1::INSTR")
	require.True(ok)
	require.Equal("device 1", d.Name())

	_, ok = s.Device("ASRL99::INSTR")
	require.False(ok)
}

func TestSimulator_DefaultDeviceSession(t *testing.T) {
	require := require.New(t)

	s := New()
	require.NoError(s.LoadDefault())

	d, ok := s.Device("ASRL1::INSTR")
	require.True(ok)

	// The serial resource terminates queries with CR and responses with LF.
	d.Write([]byte("*IDN?\r"))
	require.Equal([]byte("LSG Serial #1234\n"), d.Read(64))

	d.Write([]byte("?FREQ\r"))
	require.Equal([]byte("100.00\n"), d.Read(64))

	d.Write([]byte("!FREQ 500.5\r"))
	require.Equal([]byte("OK\n"), d.Read(64))

	d.Write([]byte("?FREQ\r"))
	require.Equal([]byte("500.50\n"), d.Read(64))

	// Out-of-range writes answer the per-setter error response and leave the
	// value untouched.
	d.Write([]byte("!FREQ 0.1\r"))
	require.Equal([]byte("FREQ_ERROR\n"), d.Read(64))
	d.Write([]byte("?FREQ\r"))
	require.Equal([]byte("500.50\n"), d.Read(64))

	// Unmatched queries answer the generic command error.
	d.Write([]byte("BOGUS?\r"))
	require.Equal([]byte("ERROR\n"), d.Read(64))
}

func TestSimulator_ResourcesAreIndependent(t *testing.T) {
	require := require.New(t)

	s := New()
	require.NoError(s.LoadDefault())

	serial, ok := s.Device("ASRL1::INSTR")
	require.True(ok)
	gpib, ok := s.Device("GPIB0::8::INSTR")
	require.True(ok)

	require.Equal([]byte("OK"), serial.Match([]byte("!FREQ 999")).Bytes())
	require.Equal([]byte("999.00"), serial.Match([]byte("?FREQ")).Bytes())

	// The GPIB instance still holds the default.
	require.Equal([]byte("100.00"), gpib.Match([]byte("?FREQ")).Bytes())
}

func TestSimulator_LoadFile(t *testing.T) {
	require := require.New(t)

	def := `
devices:
  meter:
    error:
      command_error: "NG"
    dialogues:
      - q: "*IDN?"
        r: "METER,0.1"
resources:
  TCPIP0::meter::5025::SOCKET:
    device: meter
`
	path := filepath.Join(t.TempDir(), "meter.yaml")
	require.NoError(os.WriteFile(path, []byte(def), 0o644))

	s := New()
	require.NoError(s.Load(path))

	d, ok := s.Device("TCPIP0::meter::5025::SOCKET")
	require.True(ok)
	require.Equal([]byte("METER,0.1"), d.Match([]byte("*IDN?")).Bytes())

	require.Error(s.Load(filepath.Join(t.TempDir(), "absent.yaml")))
}
