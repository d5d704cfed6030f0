package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/werkstatt/internal/client/jobs"
	"github.com/dmitrijs2005/werkstatt/internal/client/models"
	"github.com/dmitrijs2005/werkstatt/internal/client/router"
	"github.com/dmitrijs2005/werkstatt/internal/client/signature"
	"github.com/dmitrijs2005/werkstatt/internal/client/timer"
)

// report prints a handler error for the user and passes it through.
func (a *App) report(err error) error {
	if err != nil {
		printlnFn("error:", err)
	}
	return err
}

func (a *App) inDetail() bool {
	return a.router.Current().Kind == router.ViewDetail
}

// detailJob returns the job addressed by the current detail view.
func (a *App) detailJob() (models.Job, error) {
	v := a.router.Current()
	if v.Kind != router.ViewDetail {
		return models.Job{}, fmt.Errorf("no job opened, use: open <n|id>")
	}
	job, ok := a.cache.Job(v.JobID)
	if !ok {
		return models.Job{}, fmt.Errorf("job disappeared, back to the list")
	}
	return job, nil
}

// renderCurrent renders whatever the router currently addresses.
func (a *App) renderCurrent(ctx context.Context) error {
	v := a.router.Current()
	if v.Kind == router.ViewDetail {
		return a.renderDetailView(v.JobID)
	}
	return a.List(ctx)
}

// List renders the job list with the active filter and search term.
func (a *App) List(ctx context.Context) error {
	visible := sortJobs(filterJobs(a.cache.Jobs(), a.statusFilter, a.search))

	a.listing = a.listing[:0]
	for _, j := range visible {
		a.listing = append(a.listing, j.ID)
	}

	now := time.Now()
	renderList(os.Stdout, a.config.AppTitle, a.config.CompanyName, a.cache.Stats(), visible,
		func(jobID string) int {
			return timer.TotalMinutes(a.cache.EntriesOf(jobID), now)
		},
		func(jobID string) bool {
			_, running := a.cache.RunningEntryOf(jobID)
			return running
		})
	return nil
}

func (a *App) renderDetailView(jobID string) error {
	job, ok := a.cache.Job(jobID)
	if !ok {
		return a.report(fmt.Errorf("job %s not found", jobID))
	}
	var sig *models.Signature
	if s, ok := a.cache.SignatureOf(jobID); ok {
		sig = &s
	}
	renderDetail(os.Stdout, job, a.cache.EntriesOf(jobID), sig,
		a.cache.ItemsOf(jobID), a.cache.PhotosOf(jobID), a.photos.PublicURL, time.Now())
	return nil
}

// Open navigates to a job addressed either by its index in the last list
// render or by its id.
func (a *App) Open(ctx context.Context, arg string) error {
	id := arg
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(a.listing) {
			return a.report(fmt.Errorf("no such list entry: %d", n))
		}
		id = a.listing[n-1]
	}

	v := a.router.Navigate(router.JobPath(id))
	if v.Kind != router.ViewDetail {
		printlnFn("Unknown job, showing the list.")
		return a.List(ctx)
	}
	return a.renderDetailView(v.JobID)
}

func (a *App) Back(ctx context.Context) error {
	a.router.Back()
	return a.renderCurrent(ctx)
}

func (a *App) Forward(ctx context.Context) error {
	a.router.Forward()
	return a.renderCurrent(ctx)
}

// NewJob prompts for the job fields and creates it.
func (a *App) NewJob(ctx context.Context) error {
	title, err := GetSimpleText(a.reader, "Titel", os.Stdout)
	if err != nil {
		return a.report(err)
	}
	customer, err := GetSimpleText(a.reader, "Kunde", os.Stdout)
	if err != nil {
		return a.report(err)
	}
	vehicle, err := GetSimpleText(a.reader, "Fahrzeug", os.Stdout)
	if err != nil {
		return a.report(err)
	}
	plate, err := GetSimpleText(a.reader, "Kennzeichen", os.Stdout)
	if err != nil {
		return a.report(err)
	}
	notes, err := GetMultiline(a.reader, "Notizen", os.Stdout)
	if err != nil {
		return a.report(err)
	}

	job, err := a.jobs.Create(ctx, jobs.CreateInput{
		Title:    title,
		Customer: customer,
		Vehicle:  vehicle,
		Plate:    plate,
		Notes:    notes,
	})
	if err != nil {
		return a.report(err)
	}
	a.router.Navigate(router.JobPath(job.ID))
	return a.renderDetailView(job.ID)
}

// Find sets the search term; an empty term clears it.
func (a *App) Find(ctx context.Context, term string) error {
	a.search = strings.TrimSpace(term)
	return a.List(ctx)
}

// Filter sets the status filter: open, done or all.
func (a *App) Filter(ctx context.Context, status string) error {
	switch status {
	case "open", "done":
		a.statusFilter = status
	case "all":
		a.statusFilter = ""
	default:
		return a.report(fmt.Errorf("unknown filter %q, use open, done or all", status))
	}
	return a.List(ctx)
}

// Star toggles the importance flag of the opened job.
func (a *App) Star(ctx context.Context) error {
	job, err := a.detailJob()
	if err != nil {
		return a.report(err)
	}
	if err := a.jobs.SetImportant(ctx, job.ID, !job.Important); err != nil {
		return a.report(err)
	}
	return a.renderDetailView(job.ID)
}

// CloseJob closes the opened job after confirmation.
func (a *App) CloseJob(ctx context.Context) error {
	job, err := a.detailJob()
	if err != nil {
		return a.report(err)
	}
	ok, err := GetConfirm(a.reader, "Auftrag abschließen?", false, os.Stdout)
	if err != nil {
		return a.report(err)
	}
	if !ok {
		return nil
	}
	if err := a.jobs.Close(ctx, job.ID); err != nil {
		return a.report(err)
	}
	return a.renderDetailView(job.ID)
}

// DeleteJob deletes the opened job and everything attached to it, then
// returns to the list.
func (a *App) DeleteJob(ctx context.Context) error {
	job, err := a.detailJob()
	if err != nil {
		return a.report(err)
	}
	ok, err := GetConfirm(a.reader, "Auftrag und alle zugehörigen Daten löschen?", false, os.Stdout)
	if err != nil {
		return a.report(err)
	}
	if !ok {
		return nil
	}
	if err := a.jobs.Delete(ctx, job.ID); err != nil {
		return a.report(err)
	}
	a.router.Navigate("/")
	return a.List(ctx)
}

// StartTimer prompts for worker and task and starts a time entry.
func (a *App) StartTimer(ctx context.Context) error {
	job, err := a.detailJob()
	if err != nil {
		return a.report(err)
	}
	worker, err := GetSimpleText(a.reader, "Mitarbeiter", os.Stdout)
	if err != nil {
		return a.report(err)
	}
	task, err := GetSimpleText(a.reader, "Tätigkeit (optional)", os.Stdout)
	if err != nil {
		return a.report(err)
	}
	if err := a.engine.Start(ctx, job.ID, worker, task); err != nil {
		return a.report(err)
	}
	return a.renderDetailView(job.ID)
}

// StopTimer stops the running time entry of the opened job.
func (a *App) StopTimer(ctx context.Context) error {
	job, err := a.detailJob()
	if err != nil {
		return a.report(err)
	}
	if err := a.engine.Stop(ctx, job.ID); err != nil {
		return a.report(err)
	}
	return a.renderDetailView(job.ID)
}

// Meta edits odometer and drop-off/pick-up times of the opened job.
func (a *App) Meta(ctx context.Context) error {
	job, err := a.detailJob()
	if err != nil {
		return a.report(err)
	}
	odometer, err := GetOptionalInt(a.reader, "Kilometerstand (leer = nicht erfasst)", os.Stdout)
	if err != nil {
		return a.report(err)
	}
	dropoff, err := GetOptionalTime(a.reader, "Annahme", os.Stdout)
	if err != nil {
		return a.report(err)
	}
	pickup, err := GetOptionalTime(a.reader, "Abholung", os.Stdout)
	if err != nil {
		return a.report(err)
	}
	if err := a.jobs.SaveMeta(ctx, job.ID, jobs.MetaInput{
		OdometerKM: odometer,
		DropoffAt:  dropoff,
		PickupAt:   pickup,
	}); err != nil {
		return a.report(err)
	}
	return a.renderDetailView(job.ID)
}

// EditChecklist walks the fixed checklist keys and prompts each one.
func (a *App) EditChecklist(ctx context.Context) error {
	job, err := a.detailJob()
	if err != nil {
		return a.report(err)
	}
	cl := models.NormalizeChecklist(job.Checklist)
	for _, key := range models.ChecklistKeys {
		v, err := GetConfirm(a.reader, models.ChecklistLabels[key], cl[key], os.Stdout)
		if err != nil {
			return a.report(err)
		}
		cl[key] = v
	}
	if err := a.jobs.SaveChecklist(ctx, job.ID, cl); err != nil {
		return a.report(err)
	}
	return a.renderDetailView(job.ID)
}

// EditNotes replaces the notes of the opened job.
func (a *App) EditNotes(ctx context.Context) error {
	job, err := a.detailJob()
	if err != nil {
		return a.report(err)
	}
	notes, err := GetMultiline(a.reader, "Notizen", os.Stdout)
	if err != nil {
		return a.report(err)
	}
	if err := a.jobs.SaveNotes(ctx, job.ID, notes); err != nil {
		return a.report(err)
	}
	return a.renderDetailView(job.ID)
}

// AddItem prompts for a billable line and appends it.
func (a *App) AddItem(ctx context.Context) error {
	job, err := a.detailJob()
	if err != nil {
		return a.report(err)
	}
	itemType, err := GetSimpleText(a.reader, "Typ (arbeit/material)", os.Stdout)
	if err != nil {
		return a.report(err)
	}
	description, err := GetSimpleText(a.reader, "Beschreibung", os.Stdout)
	if err != nil {
		return a.report(err)
	}
	qty, err := GetFloat(a.reader, "Menge", 1, os.Stdout)
	if err != nil {
		return a.report(err)
	}
	price, err := GetFloat(a.reader, "Einzelpreis €", 0, os.Stdout)
	if err != nil {
		return a.report(err)
	}
	if err := a.jobs.AddItem(ctx, job.ID, itemType, description, qty, price); err != nil {
		return a.report(err)
	}
	return a.renderDetailView(job.ID)
}

// DeleteItem removes a billable line by its index in the detail view.
func (a *App) DeleteItem(ctx context.Context) error {
	job, err := a.detailJob()
	if err != nil {
		return a.report(err)
	}
	items := a.cache.ItemsOf(job.ID)
	if len(items) == 0 {
		printlnFn("Keine Positionen.")
		return nil
	}
	idx, err := GetOptionalInt(a.reader, "Position Nr.", os.Stdout)
	if err != nil {
		return a.report(err)
	}
	if idx == nil || *idx < 1 || int(*idx) > len(items) {
		return a.report(fmt.Errorf("no such item"))
	}
	if err := a.jobs.DeleteItem(ctx, job.ID, items[*idx-1].ID); err != nil {
		return a.report(err)
	}
	return a.renderDetailView(job.ID)
}

// AddPhoto uploads a local image file as a job photo.
func (a *App) AddPhoto(ctx context.Context) error {
	job, err := a.detailJob()
	if err != nil {
		return a.report(err)
	}
	path, err := GetSimpleText(a.reader, "Dateipfad", os.Stdout)
	if err != nil {
		return a.report(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return a.report(err)
	}
	isID, err := GetConfirm(a.reader, "Ausweisfoto?", false, os.Stdout)
	if err != nil {
		return a.report(err)
	}
	kind := models.PhotoKindGeneral
	if isID {
		kind = models.PhotoKindID
	}

	photo, err := a.jobs.UploadPhoto(ctx, job.ID, kind, filepath.Ext(path), data)
	if err != nil {
		return a.report(err)
	}
	printlnFn("Hochgeladen:", a.photos.PublicURL(photo.Path))
	return a.renderDetailView(job.ID)
}

// DeletePhoto removes a photo by its index in the detail view.
func (a *App) DeletePhoto(ctx context.Context) error {
	job, err := a.detailJob()
	if err != nil {
		return a.report(err)
	}
	photos := a.cache.PhotosOf(job.ID)
	if len(photos) == 0 {
		printlnFn("Keine Fotos.")
		return nil
	}
	idx, err := GetOptionalInt(a.reader, "Foto Nr.", os.Stdout)
	if err != nil {
		return a.report(err)
	}
	if idx == nil || *idx < 1 || int(*idx) > len(photos) {
		return a.report(fmt.Errorf("no such photo"))
	}
	if err := a.jobs.DeletePhoto(ctx, job.ID, photos[*idx-1].ID); err != nil {
		return a.report(err)
	}
	return a.renderDetailView(job.ID)
}

// Sign captures strokes from the terminal and saves the signature. Each
// input line is one stroke: points as "x,y" pairs separated by spaces, an
// empty line finishes.
func (a *App) Sign(ctx context.Context) error {
	job, err := a.detailJob()
	if err != nil {
		return a.report(err)
	}
	name, err := GetSimpleText(a.reader, "Name des Unterzeichners", os.Stdout)
	if err != nil {
		return a.report(err)
	}

	pad := a.signature.Pad()
	pad.Clear()
	printlnFn("Striche eingeben: eine Zeile pro Strich, Punkte als x,y (leere Zeile beendet)")
	for {
		line, _ := a.reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		if err := applyStroke(pad, line); err != nil {
			printlnFn("error:", err)
		}
	}

	if err := a.signature.Save(ctx, job.ID, name); err != nil {
		return a.report(err)
	}
	printlnFn("Unterschrift gespeichert.")
	return a.renderDetailView(job.ID)
}

// applyStroke parses one stroke line ("x,y x,y ...") and draws it.
func applyStroke(pad *signature.Pad, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	for i, f := range fields {
		parts := strings.SplitN(f, ",", 2)
		if len(parts) != 2 {
			return fmt.Errorf("bad point %q, expected x,y", f)
		}
		x, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return fmt.Errorf("bad point %q: %w", f, err)
		}
		y, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return fmt.Errorf("bad point %q: %w", f, err)
		}
		if i == 0 {
			pad.StrokeStart(x, y)
		} else {
			pad.StrokeMove(x, y)
		}
	}
	pad.StrokeEnd()
	return nil
}

// Reload re-fetches everything from the store and re-renders the current
// view.
func (a *App) Reload(ctx context.Context) error {
	if err := a.cache.ReloadAll(ctx); err != nil {
		return a.report(err)
	}
	return a.renderCurrent(ctx)
}
