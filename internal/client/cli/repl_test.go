package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	detail bool

	calls []string
	arg   string
}

func (f *fakeExec) inDetail() bool { return f.detail }
func (f *fakeExec) List(ctx context.Context) error {
	f.calls = append(f.calls, "list")
	return nil
}
func (f *fakeExec) Open(ctx context.Context, arg string) error {
	f.calls = append(f.calls, "open")
	f.arg = arg
	f.detail = true
	return nil
}
func (f *fakeExec) Back(ctx context.Context) error {
	f.calls = append(f.calls, "back")
	return nil
}
func (f *fakeExec) Forward(ctx context.Context) error {
	f.calls = append(f.calls, "fwd")
	return nil
}
func (f *fakeExec) NewJob(ctx context.Context) error {
	f.calls = append(f.calls, "new")
	return nil
}
func (f *fakeExec) Find(ctx context.Context, term string) error {
	f.calls = append(f.calls, "find")
	f.arg = term
	return nil
}
func (f *fakeExec) Filter(ctx context.Context, status string) error {
	f.calls = append(f.calls, "filter")
	f.arg = status
	return nil
}
func (f *fakeExec) Star(ctx context.Context) error {
	f.calls = append(f.calls, "star")
	return nil
}
func (f *fakeExec) CloseJob(ctx context.Context) error {
	f.calls = append(f.calls, "close")
	return nil
}
func (f *fakeExec) DeleteJob(ctx context.Context) error {
	f.calls = append(f.calls, "delete")
	return nil
}
func (f *fakeExec) StartTimer(ctx context.Context) error {
	f.calls = append(f.calls, "start")
	return nil
}
func (f *fakeExec) StopTimer(ctx context.Context) error {
	f.calls = append(f.calls, "stop")
	return nil
}
func (f *fakeExec) Meta(ctx context.Context) error {
	f.calls = append(f.calls, "meta")
	return nil
}
func (f *fakeExec) EditChecklist(ctx context.Context) error {
	f.calls = append(f.calls, "check")
	return nil
}
func (f *fakeExec) EditNotes(ctx context.Context) error {
	f.calls = append(f.calls, "note")
	return nil
}
func (f *fakeExec) AddItem(ctx context.Context) error {
	f.calls = append(f.calls, "item")
	return nil
}
func (f *fakeExec) DeleteItem(ctx context.Context) error {
	f.calls = append(f.calls, "delitem")
	return nil
}
func (f *fakeExec) AddPhoto(ctx context.Context) error {
	f.calls = append(f.calls, "photo")
	return nil
}
func (f *fakeExec) DeletePhoto(ctx context.Context) error {
	f.calls = append(f.calls, "delphoto")
	return nil
}
func (f *fakeExec) Sign(ctx context.Context) error {
	f.calls = append(f.calls, "sign")
	return nil
}
func (f *fakeExec) Reload(ctx context.Context) error {
	f.calls = append(f.calls, "sync")
	return nil
}

func TestRunREPL_CommandsAndExit(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader(strings.Join([]string{
		"help",
		"list",
		"open 2",
		"help",
		"start",
		"stop",
		"sign",
		"close",
		"back",
		"foobar",
		"exit",
	}, "\n"))

	exec := &fakeExec{}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "/" }, sc)

	wantOrder := []string{"list", "open", "start", "stop", "sign", "close", "back"}
	idx := 0
	for _, c := range exec.calls {
		if idx < len(wantOrder) && c == wantOrder[idx] {
			idx++
		}
	}
	if idx != len(wantOrder) {
		t.Fatalf("commands order mismatch: got %v, want subseq %v", exec.calls, wantOrder)
	}
	if exec.arg != "2" {
		t.Fatalf("open argument not passed: %q", exec.arg)
	}
}

func TestRunREPL_UsageAndQuit(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader("open\nfilter\nquit\n")
	exec := &fakeExec{}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "/" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}

func TestRunREPL_FindJoinsArgs(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader("find golf gti\nexit\n")
	exec := &fakeExec{}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "/" }, sc)

	if exec.arg != "golf gti" {
		t.Fatalf("find term not joined: %q", exec.arg)
	}
}
