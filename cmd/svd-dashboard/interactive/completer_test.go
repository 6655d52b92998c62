package interactive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func complete(c *Completer, line string) ([]string, int) {
	runes := []rune(line)
	suffixes, n := c.Do(runes, len(runes))
	out := make([]string, len(suffixes))
	for i, s := range suffixes {
		out[i] = string(s)
	}
	return out, n
}

func TestCompleterCommands(t *testing.T) {
	c := &Completer{Module: testModule(t)}

	got, n := complete(c, "re")
	assert.Equal(t, []string{"fresh ", "move "}, got)
	assert.Equal(t, 2, n)

	got, _ = complete(c, "")
	assert.Len(t, got, len(commands))
}

func TestCompleterAdd(t *testing.T) {
	c := &Completer{Module: testModule(t)}

	got, n := complete(c, "add TIM")
	assert.Equal(t, []string{"ER0 ", "ER1 "}, got)
	assert.Equal(t, 3, n)

	got, n = complete(c, "add /x TIMER0 ")
	assert.Equal(t, []string{"CTRL ", "PRESCALE "}, got)
	assert.Equal(t, 0, n)

	got, _ = complete(c, "get UART0 D")
	assert.Equal(t, []string{"R "}, got)

	got, _ = complete(c, "add TIMER0 CTRL /_")
	assert.Equal(t, []string{"t "}, got)
}

func TestCompleterRemove(t *testing.T) {
	m := testModule(t)
	c := &Completer{Module: m}

	got, _ := complete(c, "remove ")
	assert.Empty(t, got)

	assert.NoError(t, m.Add("TIMER1 CTRL"))
	got, _ = complete(c, "remove ")
	assert.Equal(t, []string{"TIMER1 "}, got)

	got, _ = complete(c, "remove TIMER1 ")
	assert.Equal(t, []string{"CTRL "}, got)
}

func TestCompleterFiles(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "chip.svd"), nil, 0644))
	assert.NoError(t, os.Mkdir(filepath.Join(dir, "vendor"), 0755))

	c := &Completer{Module: testModule(t)}

	got, _ := complete(c, "load "+filepath.Join(dir, "ch"))
	assert.Equal(t, []string{"ip.svd "}, got)

	got, _ = complete(c, "load "+filepath.Join(dir, "v"))
	assert.Equal(t, []string{"endor" + string(filepath.Separator)}, got)
}

func TestCompleterUnknownCommand(t *testing.T) {
	c := &Completer{Module: testModule(t)}
	got, _ := complete(c, "frobnicate T")
	assert.Empty(t, got)
}
