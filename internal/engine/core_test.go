package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alex-buyanov/duplicate-finder/internal/scanner"
)

func mustWrite(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
}

func newRunner(t *testing.T, opts Options) *Runner {
	t.Helper()
	r, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

// countingHasher is a ContentHasher fake that records how often each stage
// runs per file. Sums are derived from real content so grouping behaves
// exactly like a real digest.
type countingHasher struct {
	mu           sync.Mutex
	partialCalls map[string]int
	fullCalls    map[string]int
}

func newCountingHasher() *countingHasher {
	return &countingHasher{
		partialCalls: make(map[string]int),
		fullCalls:    make(map[string]int),
	}
}

func (c *countingHasher) PartialSum(path string) (string, error) {
	c.mu.Lock()
	c.partialCalls[path]++
	c.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if len(data) > 4096 {
		data = data[:4096]
	}
	return fmt.Sprintf("partial-%x", data), nil
}

func (c *countingHasher) FullSum(path string) (string, error) {
	c.mu.Lock()
	c.fullCalls[path]++
	c.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("full-%x", data), nil
}

func (c *countingHasher) totalFullCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.fullCalls {
		n += v
	}
	return n
}

func groupPaths(res *Result) map[string][]string {
	out := make(map[string][]string)
	for sum, g := range res.Groups {
		for _, f := range g.Files {
			out[sum] = append(out[sum], f.Path)
		}
	}
	return out
}

func TestRunFindsDuplicatePair(t *testing.T) {
	tmpDir := t.TempDir()
	mustWrite(t, filepath.Join(tmpDir, "a.txt"), []byte("hello"))
	mustWrite(t, filepath.Join(tmpDir, "b.txt"), []byte("hello"))
	mustWrite(t, filepath.Join(tmpDir, "c.txt"), []byte("world"))

	res, err := newRunner(t, Options{}).Run(tmpDir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(res.Groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(res.Groups))
	}
	for _, g := range res.Groups {
		if g.Count != 2 {
			t.Fatalf("expected group of 2, got %d", g.Count)
		}
		// keeper comes first under the default alpha policy
		if filepath.Base(g.Files[0].Path) != "a.txt" || filepath.Base(g.Files[1].Path) != "b.txt" {
			t.Errorf("unexpected group order: %s, %s", g.Files[0].Path, g.Files[1].Path)
		}
		for _, f := range g.Files {
			if filepath.Base(f.Path) == "c.txt" {
				t.Error("unique file c.txt must not appear in any group")
			}
		}
	}

	if res.TotalScanned != 3 {
		t.Errorf("expected 3 scanned files, got %d", res.TotalScanned)
	}
	if res.DuplicateCount() != 1 {
		t.Errorf("expected 1 redundant copy, got %d", res.DuplicateCount())
	}
	if res.ReclaimableBytes() != int64(len("hello")) {
		t.Errorf("expected %d reclaimable bytes, got %d", len("hello"), res.ReclaimableBytes())
	}
}

func TestRunEmptyDirectory(t *testing.T) {
	res, err := newRunner(t, Options{}).Run(t.TempDir())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Groups) != 0 {
		t.Errorf("expected no groups, got %d", len(res.Groups))
	}
}

func TestRunAllUniqueContent(t *testing.T) {
	tmpDir := t.TempDir()
	mustWrite(t, filepath.Join(tmpDir, "a.txt"), []byte("one"))
	mustWrite(t, filepath.Join(tmpDir, "b.txt"), []byte("two"))
	mustWrite(t, filepath.Join(tmpDir, "c.txt"), []byte("three"))

	res, err := newRunner(t, Options{}).Run(tmpDir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Groups) != 0 {
		t.Errorf("expected no groups, got %d", len(res.Groups))
	}
}

func TestRunRepeatedCopies(t *testing.T) {
	tmpDir := t.TempDir()
	for i := 0; i < 5; i++ {
		mustWrite(t, filepath.Join(tmpDir, fmt.Sprintf("copy%d.dat", i)), []byte("same content"))
	}

	res, err := newRunner(t, Options{}).Run(tmpDir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(res.Groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(res.Groups))
	}
	for _, g := range res.Groups {
		if g.Count != 5 {
			t.Errorf("expected group of 5, got %d", g.Count)
		}
	}
}

func TestRunEmptyFilesAreDuplicates(t *testing.T) {
	tmpDir := t.TempDir()
	mustWrite(t, filepath.Join(tmpDir, "a.empty"), nil)
	mustWrite(t, filepath.Join(tmpDir, "b.empty"), nil)

	res, err := newRunner(t, Options{}).Run(tmpDir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Groups) != 1 {
		t.Fatalf("two empty files must form one group, got %d groups", len(res.Groups))
	}
}

func TestRunGroupsAreDisjoint(t *testing.T) {
	tmpDir := t.TempDir()
	mustWrite(t, filepath.Join(tmpDir, "a1.txt"), []byte("alpha"))
	mustWrite(t, filepath.Join(tmpDir, "a2.txt"), []byte("alpha"))
	mustWrite(t, filepath.Join(tmpDir, "b1.txt"), []byte("beta"))
	mustWrite(t, filepath.Join(tmpDir, "b2.txt"), []byte("beta"))
	mustWrite(t, filepath.Join(tmpDir, "b3.txt"), []byte("beta"))

	res, err := newRunner(t, Options{}).Run(tmpDir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(res.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(res.Groups))
	}

	seen := make(map[string]bool)
	for _, g := range res.Groups {
		if g.Count < 2 {
			t.Errorf("group of size %d emitted", g.Count)
		}
		for _, f := range g.Files {
			if seen[f.Path] {
				t.Errorf("file %s appears in more than one group", f.Path)
			}
			seen[f.Path] = true
		}
	}
}

func TestRunIsIdempotent(t *testing.T) {
	tmpDir := t.TempDir()
	mustWrite(t, filepath.Join(tmpDir, "x1.txt"), []byte("xxxx"))
	mustWrite(t, filepath.Join(tmpDir, "x2.txt"), []byte("xxxx"))
	mustWrite(t, filepath.Join(tmpDir, "y1.txt"), []byte("yyyy"))
	mustWrite(t, filepath.Join(tmpDir, "y2.txt"), []byte("yyyy"))

	r := newRunner(t, Options{})
	first, err := r.Run(tmpDir)
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	second, err := r.Run(tmpDir)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}

	a, b := groupPaths(first), groupPaths(second)
	if len(a) != len(b) {
		t.Fatalf("group counts differ between runs: %d vs %d", len(a), len(b))
	}
	for sum, files := range a {
		other, ok := b[sum]
		if !ok {
			t.Fatalf("fingerprint %s missing from second run", sum)
		}
		if len(files) != len(other) {
			t.Fatalf("group %s size differs between runs", sum)
		}
		for i := range files {
			if files[i] != other[i] {
				t.Errorf("group %s ordering differs between runs", sum)
			}
		}
	}
}

func TestRunPrunesUniquePrefixesFromFullHashing(t *testing.T) {
	tmpDir := t.TempDir()
	// All three files differ within the first bytes, so none of them has a
	// same-prefix peer and none may be read in full.
	mustWrite(t, filepath.Join(tmpDir, "a.txt"), []byte("prefix-a"))
	mustWrite(t, filepath.Join(tmpDir, "b.txt"), []byte("prefix-b"))
	mustWrite(t, filepath.Join(tmpDir, "c.txt"), []byte("prefix-c"))

	ch := newCountingHasher()
	res, err := newRunner(t, Options{Hasher: ch}).Run(tmpDir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(res.Groups) != 0 {
		t.Errorf("expected no groups, got %d", len(res.Groups))
	}
	if len(ch.partialCalls) != 3 {
		t.Errorf("every file must be partially fingerprinted, got %d", len(ch.partialCalls))
	}
	if n := ch.totalFullCalls(); n != 0 {
		t.Errorf("files with unique prefixes were read in full %d times", n)
	}
}

func TestRunFullHashesSharedPrefixes(t *testing.T) {
	tmpDir := t.TempDir()
	// Same 4096-byte prefix, different tails: partial stage clusters them,
	// full stage must run on both and then split them apart.
	prefix := make([]byte, 4096)
	mustWrite(t, filepath.Join(tmpDir, "a.bin"), append(append([]byte{}, prefix...), 'a'))
	mustWrite(t, filepath.Join(tmpDir, "b.bin"), append(append([]byte{}, prefix...), 'b'))

	ch := newCountingHasher()
	res, err := newRunner(t, Options{Hasher: ch}).Run(tmpDir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(res.Groups) != 0 {
		t.Errorf("files differing beyond the prefix must not group, got %d groups", len(res.Groups))
	}
	if n := ch.totalFullCalls(); n != 2 {
		t.Errorf("expected 2 full fingerprint reads, got %d", n)
	}
}

func TestRunFullHashesExactBoundFiles(t *testing.T) {
	tmpDir := t.TempDir()
	// Identical files of exactly the partial bound: the partial stage fully
	// determines equality, but the algorithm still confirms with a full
	// fingerprint.
	content := make([]byte, 4096)
	for i := range content {
		content[i] = byte(i)
	}
	mustWrite(t, filepath.Join(tmpDir, "a.bin"), content)
	mustWrite(t, filepath.Join(tmpDir, "b.bin"), content)

	ch := newCountingHasher()
	res, err := newRunner(t, Options{Hasher: ch}).Run(tmpDir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(res.Groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(res.Groups))
	}
	if n := ch.totalFullCalls(); n != 2 {
		t.Errorf("expected 2 full fingerprint reads, got %d", n)
	}
}

func TestRunSkipsUnreadableFiles(t *testing.T) {
	tmpDir := t.TempDir()
	mustWrite(t, filepath.Join(tmpDir, "a.txt"), []byte("same"))
	mustWrite(t, filepath.Join(tmpDir, "b.txt"), []byte("same"))
	mustWrite(t, filepath.Join(tmpDir, "broken.txt"), []byte("same"))

	ch := &failingHasher{inner: newCountingHasher(), failOn: filepath.Join(tmpDir, "broken.txt")}
	res, err := newRunner(t, Options{Hasher: ch}).Run(tmpDir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Skipped != 1 {
		t.Errorf("expected 1 skipped file, got %d", res.Skipped)
	}
	if len(res.Groups) != 1 {
		t.Fatalf("expected 1 group from the readable pair, got %d", len(res.Groups))
	}
	for _, g := range res.Groups {
		if g.Count != 2 {
			t.Errorf("expected group of 2, got %d", g.Count)
		}
		for _, f := range g.Files {
			if f.Path == ch.failOn {
				t.Error("unreadable file must be excluded from grouping")
			}
		}
	}
}

// failingHasher wraps a ContentHasher and fails both stages for one path.
type failingHasher struct {
	inner  ContentHasher
	failOn string
}

func (f *failingHasher) PartialSum(path string) (string, error) {
	if path == f.failOn {
		return "", errors.New("simulated read failure")
	}
	return f.inner.PartialSum(path)
}

func (f *failingHasher) FullSum(path string) (string, error) {
	if path == f.failOn {
		return "", errors.New("simulated read failure")
	}
	return f.inner.FullSum(path)
}

func TestRunMissingRoot(t *testing.T) {
	_, err := newRunner(t, Options{}).Run(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, scanner.ErrPathNotFound) {
		t.Errorf("got %v, want ErrPathNotFound", err)
	}
}

func TestRunRootIsAFile(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "file.txt")
	mustWrite(t, file, []byte("flat"))

	_, err := newRunner(t, Options{}).Run(file)
	if !errors.Is(err, scanner.ErrNotADirectory) {
		t.Errorf("got %v, want ErrNotADirectory", err)
	}
}

func TestNewRejectsUnknownAlgorithm(t *testing.T) {
	if _, err := New(Options{Algorithm: "crc32"}); err == nil {
		t.Error("expected error for unsupported algorithm")
	}
}
