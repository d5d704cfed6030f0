package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/werkstatt/internal/client/cache"
	"github.com/dmitrijs2005/werkstatt/internal/client/models"
	"github.com/dmitrijs2005/werkstatt/internal/client/timer"
	"golang.org/x/term"
)

// termWidth is a test seam around the terminal size lookup.
var termWidth = func() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

func separator() string {
	w := termWidth()
	if w > 120 {
		w = 120
	}
	return strings.Repeat("-", w)
}

// sortJobs orders jobs for the list view: important ones first, newest
// first within each group. The input slice is not modified.
func sortJobs(jobs []models.Job) []models.Job {
	out := make([]models.Job, len(jobs))
	copy(out, jobs)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Important != out[j].Important {
			return out[i].Important
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// matchesSearch reports whether the job matches a case-insensitive search
// term across title, customer, vehicle, plate, job number and notes.
func matchesSearch(j models.Job, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, field := range []string{j.Title, j.Customer, j.Vehicle, j.Plate, j.JobNo, j.Notes} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// filterJobs applies the status filter ("open", "done" or "" for all) and
// the search term.
func filterJobs(jobs []models.Job, status, search string) []models.Job {
	var out []models.Job
	for _, j := range jobs {
		if status != "" && string(j.Status) != status {
			continue
		}
		if !matchesSearch(j, search) {
			continue
		}
		out = append(out, j)
	}
	return out
}

func statusLabel(j models.Job) string {
	if j.Done() {
		return "erledigt"
	}
	return "offen"
}

func jobLine(idx int, j models.Job, totalMin int, running bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%3d. ", idx)
	if j.Important {
		b.WriteString("! ")
	}
	fmt.Fprintf(&b, "[%s] %s", statusLabel(j), j.Title)
	if j.Plate != "" {
		fmt.Fprintf(&b, " — %s", j.Plate)
	}
	if j.Customer != "" {
		fmt.Fprintf(&b, " (%s)", j.Customer)
	}
	if totalMin > 0 {
		fmt.Fprintf(&b, "  %s", timer.FormatDuration(totalMin))
	}
	if running {
		b.WriteString("  ⏱")
	}
	return b.String()
}

// renderList writes the job list with header and stats. totalMin reports a
// job's tracked minutes, running whether its timer is live.
func renderList(w io.Writer, title, company string, stats cache.Stats, jobs []models.Job,
	totalMin func(jobID string) int, running func(jobID string) bool) {
	fmt.Fprintln(w, separator())
	fmt.Fprintf(w, "%s — %s\n", title, company)
	fmt.Fprintf(w, "Aufträge: %d gesamt, %d offen, %d erledigt, %d Timer aktiv\n",
		stats.TotalJobs, stats.OpenJobs, stats.DoneJobs, stats.RunningEntries)
	fmt.Fprintln(w, separator())
	if len(jobs) == 0 {
		fmt.Fprintln(w, "Keine Aufträge gefunden.")
		return
	}
	for i, j := range jobs {
		fmt.Fprintln(w, jobLine(i+1, j, totalMin(j.ID), running(j.ID)))
	}
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// renderDetail writes the full job detail view.
func renderDetail(w io.Writer, job models.Job, entries []models.TimeEntry, sig *models.Signature,
	items []models.Item, photos []models.Photo, urlFn func(path string) string, now time.Time) {

	fmt.Fprintln(w, separator())
	fmt.Fprintf(w, "%s  [%s]", job.Title, statusLabel(job))
	if job.Important {
		fmt.Fprint(w, "  !")
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Auftrag %s\n", job.JobNo)
	if job.Customer != "" {
		fmt.Fprintf(w, "Kunde:     %s\n", job.Customer)
	}
	if job.Vehicle != "" || job.Plate != "" {
		fmt.Fprintf(w, "Fahrzeug:  %s %s\n", job.Vehicle, job.Plate)
	}
	if job.OdometerKM != nil {
		fmt.Fprintf(w, "Kilometerstand: %d km\n", *job.OdometerKM)
	}
	fmt.Fprintf(w, "Annahme:   %s\n", formatTimePtr(job.DropoffAt))
	fmt.Fprintf(w, "Abholung:  %s\n", formatTimePtr(job.PickupAt))
	if job.ClosedAt != nil {
		fmt.Fprintf(w, "Geschlossen am: %s\n", formatTimePtr(job.ClosedAt))
	}
	if job.Notes != "" {
		fmt.Fprintf(w, "Notizen:\n%s\n", job.Notes)
	}

	fmt.Fprintln(w, "\nCheckliste:")
	for _, key := range models.ChecklistKeys {
		mark := " "
		if job.Checklist[key] {
			mark = "x"
		}
		fmt.Fprintf(w, "  [%s] %s\n", mark, models.ChecklistLabels[key])
	}

	var runningEntry *models.TimeEntry
	var completed []models.TimeEntry
	for i, e := range entries {
		if e.Running() {
			runningEntry = &entries[i]
		} else {
			completed = append(completed, e)
		}
	}
	sort.SliceStable(completed, func(i, j int) bool {
		return completed[i].Start.After(completed[j].Start)
	})

	fmt.Fprintln(w, "\nArbeitszeiten:")
	if runningEntry != nil {
		fmt.Fprintf(w, "  ⏱ %s läuft — %s\n",
			runningEntry.Worker, timer.FormatClock(timer.EntryMinutes(*runningEntry, now)))
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "  keine")
	} else {
		for _, e := range completed {
			line := fmt.Sprintf("  %s — %s", e.Worker, timer.FormatDuration(timer.EntryMinutes(e, now)))
			if e.Task != "" {
				line += " (" + e.Task + ")"
			}
			fmt.Fprintln(w, line)
		}
		totals := timer.WorkerTotals(entries, now)
		workers := make([]string, 0, len(totals))
		for name := range totals {
			workers = append(workers, name)
		}
		sort.Strings(workers)
		for _, name := range workers {
			fmt.Fprintf(w, "  %s gesamt: %s\n", name, timer.FormatDuration(totals[name]))
		}
		fmt.Fprintf(w, "  Gesamt: %s\n", timer.FormatDuration(timer.TotalMinutes(entries, now)))
	}

	fmt.Fprintln(w, "\nPositionen:")
	if len(items) == 0 {
		fmt.Fprintln(w, "  keine")
	} else {
		for i, it := range items {
			fmt.Fprintf(w, "  %d. %s %s  %.2f x %.2f € = %.2f €\n",
				i+1, it.ItemType, it.Description, it.Qty, it.UnitPrice, it.LineTotal())
		}
		fmt.Fprintf(w, "  Summe: %.2f €\n", models.ItemsTotal(items))
	}

	fmt.Fprintln(w, "\nFotos:")
	if len(photos) == 0 {
		fmt.Fprintln(w, "  keine")
	} else {
		for i, p := range photos {
			fmt.Fprintf(w, "  %d. [%s] %s\n", i+1, p.Kind, urlFn(p.Path))
		}
	}

	if sig != nil {
		fmt.Fprintf(w, "\nUnterschrift: %s (%s)\n", sig.SignerName, formatTimePtr(&sig.SignedAt))
	} else {
		fmt.Fprintln(w, "\nUnterschrift: fehlt")
	}
	fmt.Fprintln(w, separator())
}
