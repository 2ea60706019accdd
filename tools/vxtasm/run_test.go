package main

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func withMemFs(t *testing.T, files map[string]string) {
	t.Helper()
	mem := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(mem, name, []byte(content), 0644))
	}
	old := fs
	fs = mem
	t.Cleanup(func() { fs = old })
}

func TestAssembleFileReadsThroughFs(t *testing.T) {
	withMemFs(t, map[string]string{"hello.asm": "MOV AX, 5\nHLT\n"})

	res, err := assembleFile("hello.asm")
	require.NoError(t, err)
	require.Empty(t, res.Errors)
}

func TestAssembleFileMissingReportsError(t *testing.T) {
	withMemFs(t, nil)

	_, err := assembleFile("missing.asm")
	require.Error(t, err)
}

func TestAssembleFileWithAssemblyErrorsIsReported(t *testing.T) {
	withMemFs(t, map[string]string{"bad.asm": "FROB AX, 1\n"})

	_, err := assembleFile("bad.asm")
	require.Error(t, err)
}

func TestRunBatchHaltsCleanlyOnHelloWorld(t *testing.T) {
	withMemFs(t, map[string]string{
		"hello.asm": "MOV AH, 09h\nMOV DX, msg\nINT 21h\nHLT\nmsg: DB \"Hi$\"\n",
	})

	require.NoError(t, runBatch("hello.asm"))
}

func TestRunBatchReportsFaultWithoutError(t *testing.T) {
	withMemFs(t, map[string]string{
		"divzero.asm": "MOV AX,10\nMOV BL,0\nDIV BL\nHLT\n",
	})

	// A fault inside the program is logged, not returned - only I/O and
	// assembly failures surface as an error from runBatch.
	require.NoError(t, runBatch("divzero.asm"))
}
