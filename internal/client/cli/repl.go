package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	inDetail() bool
	List(ctx context.Context) error
	Open(ctx context.Context, arg string) error
	Back(ctx context.Context) error
	Forward(ctx context.Context) error
	NewJob(ctx context.Context) error
	Find(ctx context.Context, term string) error
	Filter(ctx context.Context, status string) error
	Star(ctx context.Context) error
	CloseJob(ctx context.Context) error
	DeleteJob(ctx context.Context) error
	StartTimer(ctx context.Context) error
	StopTimer(ctx context.Context) error
	Meta(ctx context.Context) error
	EditChecklist(ctx context.Context) error
	EditNotes(ctx context.Context) error
	AddItem(ctx context.Context) error
	DeleteItem(ctx context.Context) error
	AddPhoto(ctx context.Context) error
	DeletePhoto(ctx context.Context) error
	Sign(ctx context.Context) error
	Reload(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the werkstatt CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current path (from statusFn) and accepts commands:
//
//	List view:
//	  - help           — show available commands
//	  - list | l       — render the job list
//	  - open <n|id>    — open a job by list index or id
//	  - new            — create a job
//	  - find <text>    — set the search term (empty to clear)
//	  - filter <st>    — set the status filter: open, done or all
//	  - sync           — reload all data from the store
//	  - exit | quit    — leave the program
//
//	Detail view (additionally):
//	  - back | fwd     — navigate the history
//	  - star           — toggle importance
//	  - start | stop   — control the work timer
//	  - meta           — edit odometer and drop-off/pick-up times
//	  - check          — edit the checklist
//	  - note           — edit the notes
//	  - item | delitem — manage billable items
//	  - photo | delphoto — manage photos
//	  - sign           — capture the customer signature
//	  - close          — close the job
//	  - delete         — delete the job and everything attached
//
// Any errors returned by command handlers are ignored here; handlers should
// report their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("wk> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.inDetail() {
				printlnFn("Available commands: (l)ist, open, back, fwd, star, start, stop, meta, check, note, item, delitem, photo, delphoto, sign, close, delete, sync, exit")
			} else {
				printlnFn("Available commands: (l)ist, open <n|id>, new, find <text>, filter <open|done|all>, sync, exit")
			}

		case "l", "list":
			_ = a.List(ctx)

		case "open":
			if len(args) == 0 {
				printlnFn("Usage: open <n|id>")
				continue
			}
			_ = a.Open(ctx, args[0])

		case "back", "b":
			_ = a.Back(ctx)

		case "fwd", "forward":
			_ = a.Forward(ctx)

		case "new":
			_ = a.NewJob(ctx)

		case "find":
			_ = a.Find(ctx, strings.Join(args, " "))

		case "filter":
			if len(args) == 0 {
				printlnFn("Usage: filter <open|done|all>")
				continue
			}
			_ = a.Filter(ctx, args[0])

		case "star":
			_ = a.Star(ctx)

		case "start":
			_ = a.StartTimer(ctx)

		case "stop":
			_ = a.StopTimer(ctx)

		case "meta":
			_ = a.Meta(ctx)

		case "check":
			_ = a.EditChecklist(ctx)

		case "note":
			_ = a.EditNotes(ctx)

		case "item":
			_ = a.AddItem(ctx)

		case "delitem":
			_ = a.DeleteItem(ctx)

		case "photo":
			_ = a.AddPhoto(ctx)

		case "delphoto":
			_ = a.DeletePhoto(ctx)

		case "sign":
			_ = a.Sign(ctx)

		case "close":
			_ = a.CloseJob(ctx)

		case "delete":
			_ = a.DeleteJob(ctx)

		case "sync":
			_ = a.Reload(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
