package irw

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/llir/llvm/ir"
	lltypes "github.com/llir/llvm/ir/types"
)

func sampleModule() *ir.Module {
	mod := ir.NewModule()
	fn := mod.NewFunc("main", lltypes.I32)
	blk := fn.NewBlock("entry")
	blk.NewRet(nil)
	return mod
}

func TestWriteProducesModuleText(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleModule()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), "define i32 @main()") {
		t.Errorf("expected the module's define line in the written text, got:\n%s", buf.String())
	}
}

func TestWriteFileCreatesAndTruncates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.ll")

	if err := os.WriteFile(path, []byte("stale contents that must be replaced"), 0o644); err != nil {
		t.Fatalf("seeding stale file: %v", err)
	}
	if err := WriteFile(path, sampleModule()); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if strings.Contains(string(got), "stale contents") {
		t.Errorf("expected WriteFile to truncate the existing file, got:\n%s", got)
	}
	if !strings.Contains(string(got), "@main") {
		t.Errorf("expected the module text in the file, got:\n%s", got)
	}
}
