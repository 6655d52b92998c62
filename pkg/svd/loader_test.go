package svd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLoaderXML(t *testing.T) {
	dev, err := FileLoader{}.Load("testdata/example.svd")
	require.NoError(t, err)

	assert.Equal(t, "ARM_Example", dev.Name)
	require.Len(t, dev.Peripherals, 2)

	timer := dev.Peripherals[0]
	assert.Equal(t, "TIMER0", timer.Name)
	assert.Equal(t, uint64(0x40010000), timer.BaseAddress)
	assert.Equal(t, "32 Timer / Counter, counting up or down from different sources", CollapseSpace(timer.Description))
	require.Len(t, timer.Registers, 4)

	cr := timer.Registers[0]
	assert.Equal(t, "CR", cr.Name)
	assert.Equal(t, uint(32), cr.Size, "size inherited from device")
	assert.Equal(t, AccessReadWrite, cr.Access, "access inherited from device")
	require.Len(t, cr.Fields, 2)
	assert.Equal(t, uint(0), cr.Fields[0].BitOffset)
	assert.Equal(t, uint(1), cr.Fields[0].BitWidth)
	assert.Equal(t, uint(4), cr.Fields[1].BitOffset)
	assert.Equal(t, uint(3), cr.Fields[1].BitWidth)

	sr := timer.Registers[1]
	assert.Equal(t, uint(16), sr.Size)
	assert.Equal(t, AccessReadOnly, sr.Access)
	assert.Equal(t, uint64(0x04), sr.AddressOffset)
	require.Len(t, sr.Fields, 1)
	assert.Equal(t, uint(1), sr.Fields[0].BitWidth)

	intr := timer.Registers[2]
	assert.Equal(t, "INTCTRL", intr.Label())
	assert.Equal(t, uint(8), intr.Size, "#binary size")
	assert.False(t, intr.Access.Readable())
}

func TestFileLoaderXMLDerivedFrom(t *testing.T) {
	dev, err := FileLoader{}.Load("testdata/example.svd")
	require.NoError(t, err)

	t0, t1 := dev.Peripherals[0], dev.Peripherals[1]
	assert.Equal(t, "TIMER1", t1.Name)
	assert.Equal(t, uint64(0x40010100), t1.BaseAddress)
	assert.Equal(t, t0.Description, t1.Description)
	require.Len(t, t1.Registers, len(t0.Registers))

	for i := range t0.Registers {
		assert.Equal(t, t0.Registers[i].Name, t1.Registers[i].Name)
		assert.NotSame(t, t0.Registers[i], t1.Registers[i], "derived registers must be distinct")
	}
}

func TestFileLoaderYAML(t *testing.T) {
	dev, err := FileLoader{}.Load("testdata/example.yaml")
	require.NoError(t, err)

	assert.Equal(t, "MINI", dev.Name)
	require.Len(t, dev.Peripherals, 2)

	timer := dev.Peripherals[0]
	assert.Equal(t, uint64(0x40008000), timer.BaseAddress)
	assert.Equal(t, "General purpose timer", CollapseSpace(timer.Description))

	ctrl := timer.Registers[0]
	assert.Equal(t, uint(32), ctrl.Size)
	require.Len(t, ctrl.Fields, 1)
	assert.Equal(t, uint(32), ctrl.Fields[0].BitWidth)
	assert.Equal(t, uint64(0x40008004), timer.Address(timer.Registers[1]))

	data := dev.Peripherals[1].Registers[0]
	assert.Equal(t, "DR", data.Label())
	assert.Equal(t, AccessUnspecified, data.Access)
}

func TestFileLoaderErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "malformed xml",
			file:    "broken.svd",
			content: "<device><name>X</name>",
		},
		{
			name:    "missing device name",
			file:    "noname.yaml",
			content: "peripherals: []\n",
		},
		{
			name:    "unknown access",
			file:    "access.yaml",
			content: "name: D\nperipherals:\n  - name: P\n    baseAddress: 0x1000\n    registers:\n      - name: R\n        access: sometimes\n",
		},
		{
			name:    "zero width field",
			file:    "field.yaml",
			content: "name: D\nperipherals:\n  - name: P\n    baseAddress: 0x1000\n    registers:\n      - name: R\n        fields:\n          - name: F\n            bitWidth: 0\n",
		},
		{
			name:    "unknown derivedFrom",
			file:    "derived.svd",
			content: `<device><name>D</name><peripherals><peripheral derivedFrom="NOPE"><name>P</name><baseAddress>0</baseAddress></peripheral></peripherals></device>`,
		},
		{
			name:    "bad number",
			file:    "number.yaml",
			content: "name: D\nperipherals:\n  - name: P\n    baseAddress: 0xZZ\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := FileLoader{}.Load(path)
			require.Error(t, err)

			var le *LoadError
			require.True(t, errors.As(err, &le), "want *LoadError, got %T", err)
			assert.Equal(t, path, le.File)
		})
	}
}

func TestFileLoaderMissingFile(t *testing.T) {
	_, err := FileLoader{}.Load(filepath.Join(t.TempDir(), "absent.svd"))

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFileLoaderYAMLBaseAddress(t *testing.T) {
	dir := t.TempDir()

	t.Run("derived peripheral inherits base address", func(t *testing.T) {
		path := filepath.Join(dir, "derived.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`name: D
peripherals:
  - name: TIMER0
    baseAddress: 0x40008000
    registers:
      - name: CTRL
  - name: TIMER1
    derivedFrom: TIMER0
  - name: TIMER2
    derivedFrom: TIMER0
    baseAddress: 0x40009000
`), 0o644))

		dev, err := FileLoader{}.Load(path)
		require.NoError(t, err)
		require.Len(t, dev.Peripherals, 3)
		assert.Equal(t, uint64(0x40008000), dev.Peripherals[1].BaseAddress)
		assert.Equal(t, uint64(0x40009000), dev.Peripherals[2].BaseAddress)
		require.Len(t, dev.Peripherals[2].Registers, 1)
	})

	t.Run("zero is a valid base address", func(t *testing.T) {
		path := filepath.Join(dir, "zero.yaml")
		require.NoError(t, os.WriteFile(path, []byte("name: D\nperipherals:\n  - name: P\n    baseAddress: 0\n"), 0o644))

		dev, err := FileLoader{}.Load(path)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), dev.Peripherals[0].BaseAddress)
	})

	t.Run("missing base address", func(t *testing.T) {
		path := filepath.Join(dir, "missing.yaml")
		require.NoError(t, os.WriteFile(path, []byte("name: D\nperipherals:\n  - name: P\n    registers:\n      - name: R\n"), 0o644))

		_, err := FileLoader{}.Load(path)
		var le *LoadError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, path, le.File)
		assert.ErrorContains(t, err, "missing baseAddress")
	})
}

func TestWithFile(t *testing.T) {
	t.Run("wrapped load error", func(t *testing.T) {
		inner := &LoadError{Message: "device name is required"}
		err := withFile("chip.svd", fmt.Errorf("decoding: %w", inner))

		var le *LoadError
		require.ErrorAs(t, err, &le)
		assert.Same(t, inner, le)
		assert.Equal(t, "chip.svd", le.File)
		assert.ErrorContains(t, err, "decoding: chip.svd: device name is required")
	})

	t.Run("plain error keeps its cause", func(t *testing.T) {
		cause := errors.New("unexpected token")
		err := withFile("chip.svd", cause)

		var le *LoadError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, "chip.svd", le.File)
		assert.ErrorIs(t, err, cause)
	})
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
	}{
		{"42", 42},
		{"0x2A", 42},
		{"0X2a", 42},
		{"#101010", 42},
		{"  7 ", 7},
	}
	for _, tt := range tests {
		got, err := parseNumber(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := parseNumber("twelve")
	assert.Error(t, err)
}

func TestFieldRange(t *testing.T) {
	assert.Equal(t, "[3]", (&Field{BitOffset: 3, BitWidth: 1}).Range())
	assert.Equal(t, "[7:4]", (&Field{BitOffset: 4, BitWidth: 4}).Range())
}

func TestParseAccess(t *testing.T) {
	for _, a := range []Access{AccessReadWrite, AccessReadOnly, AccessWriteOnly, AccessWriteOnce, AccessReadWriteOnce} {
		got, err := ParseAccess(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}

	got, err := ParseAccess("")
	require.NoError(t, err)
	assert.Equal(t, AccessUnspecified, got)
	assert.True(t, got.Readable())
	assert.False(t, AccessWriteOnce.Readable())
	assert.True(t, AccessReadWriteOnce.Readable())
}

func TestRegisterEffectiveSize(t *testing.T) {
	assert.Equal(t, uint(64), (&Register{}).EffectiveSize(64))
	assert.Equal(t, uint(8), (&Register{Size: 8}).EffectiveSize(64))
}
