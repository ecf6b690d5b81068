package dashboard

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/weatherdash/weatherdash/internal/records"
)

// PendingDelete describes a destructive action waiting for confirmation. It
// carries enough to render the prompt; no network call has happened yet.
type PendingDelete struct {
	Kind records.Kind `json:"kind,omitempty"`
	ID   int64        `json:"id,omitempty"`
	Name string       `json:"name,omitempty"`
	All  bool         `json:"all"`
}

// EditForm is the editable projection of a record. All fields are strings,
// the way a form holds them; numeric fields are coerced back at submit time.
type EditForm struct {
	Kind         records.Kind `json:"kind"`
	ID           int64        `json:"id"`
	Query        string       `json:"query"`
	Lat          string       `json:"lat"`
	Lng          string       `json:"lng"`
	DisplayName  string       `json:"display_name"`
	Source       string       `json:"source"`
	SnapshotKind string       `json:"snapshot_kind"`
	StartDate    string       `json:"start_date"`
	EndDate      string       `json:"end_date"`
}

// ErrNoPendingDelete is returned when a confirmation arrives without a
// destructive action waiting for one.
var ErrNoPendingDelete = errors.New("no deletion pending")

// RecordsController manages the persisted record set: load, edit, delete and
// bulk delete, with confirmation-gated destructive actions. Every mutation is
// followed by an unconditional full reload; there is no optimistic local
// update.
type RecordsController struct {
	client *records.Client

	mu      sync.Mutex
	view    RecordsView
	pending *PendingDelete
	edit    *EditForm
}

// NewRecordsController creates a records orchestrator over the store client.
func NewRecordsController(client *records.Client) *RecordsController {
	return &RecordsController{client: client}
}

// View returns the current records state.
func (c *RecordsController) View() RecordsView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Load refetches the full saved-record set. On failure the visible set is
// reset to empty rather than left mixed with a failed-load indicator.
func (c *RecordsController) Load(ctx context.Context) RecordsView {
	c.mu.Lock()
	c.view.Phase = PhaseLoading
	c.mu.Unlock()

	set, err := c.client.List(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("records load failed; clearing visible set")
		set = records.SavedRecordSet{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.view = RecordsView{Phase: PhaseReady, Set: set}
	return c.view
}

// BeginDelete stages the deletion of one record for confirmation.
func (c *RecordsController) BeginDelete(kind records.Kind, id int64, name string) PendingDelete {
	pending := PendingDelete{Kind: kind, ID: id, Name: name}
	c.mu.Lock()
	c.pending = &pending
	c.mu.Unlock()
	return pending
}

// BeginDeleteAll stages the bulk deletion of all location and weather
// records. Range records are not part of bulk deletion.
func (c *RecordsController) BeginDeleteAll() PendingDelete {
	pending := PendingDelete{All: true}
	c.mu.Lock()
	c.pending = &pending
	c.mu.Unlock()
	return pending
}

// Pending returns the staged destructive action, if any.
func (c *RecordsController) Pending() *PendingDelete {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return nil
	}
	pending := *c.pending
	return &pending
}

// CancelDelete drops the staged action without any network call.
func (c *RecordsController) CancelDelete() {
	c.mu.Lock()
	c.pending = nil
	c.mu.Unlock()
}

// ConfirmDelete executes the staged destructive action and reloads the set.
// On failure the staged action is kept so the caller can retry or cancel.
func (c *RecordsController) ConfirmDelete(ctx context.Context) error {
	pending := c.Pending()
	if pending == nil {
		return ErrNoPendingDelete
	}

	var err error
	if pending.All {
		err = c.deleteAll(ctx)
	} else {
		err = c.client.Delete(ctx, pending.Kind, pending.ID)
	}
	if err != nil {
		log.Warn().Err(err).Msg("record deletion failed")
		return err
	}

	c.mu.Lock()
	c.pending = nil
	c.mu.Unlock()

	c.Load(ctx)
	return nil
}

// deleteAll removes all location and all weather records, the two bulk
// deletions running side by side.
func (c *RecordsController) deleteAll(ctx context.Context) error {
	var (
		wg     sync.WaitGroup
		locErr error
		wxErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		locErr = c.client.DeleteAll(ctx, records.KindLocation)
	}()
	go func() {
		defer wg.Done()
		wxErr = c.client.DeleteAll(ctx, records.KindWeather)
	}()
	wg.Wait()

	if locErr != nil {
		return locErr
	}
	return wxErr
}

// EditLocation seeds the edit form from a location record.
func (c *RecordsController) EditLocation(rec records.LocationRecord) EditForm {
	form := EditForm{
		Kind:        records.KindLocation,
		ID:          rec.ID,
		Query:       rec.Query,
		Lat:         formatCoord(rec.Lat),
		Lng:         formatCoord(rec.Lng),
		DisplayName: rec.DisplayName,
		Source:      rec.Source,
	}
	c.setEdit(form)
	return form
}

// EditWeather seeds the edit form from a weather record.
func (c *RecordsController) EditWeather(rec records.WeatherRecord) EditForm {
	kind := rec.Kind
	if kind == "" {
		kind = "current"
	}
	form := EditForm{
		Kind:         records.KindWeather,
		ID:           rec.ID,
		Lat:          formatCoord(rec.Lat),
		Lng:          formatCoord(rec.Lng),
		SnapshotKind: kind,
	}
	c.setEdit(form)
	return form
}

// EditRange seeds the edit form from a range record.
func (c *RecordsController) EditRange(rec records.RangeRecord) EditForm {
	form := EditForm{
		Kind:      records.KindRange,
		ID:        rec.ID,
		Query:     rec.Query,
		Lat:       formatCoord(rec.Lat),
		Lng:       formatCoord(rec.Lng),
		StartDate: rec.StartDate,
		EndDate:   rec.EndDate,
	}
	c.setEdit(form)
	return form
}

// Editing returns the seeded edit form, if any.
func (c *RecordsController) Editing() *EditForm {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.edit == nil {
		return nil
	}
	form := *c.edit
	return &form
}

// CancelEdit drops the edit form without any network call.
func (c *RecordsController) CancelEdit() {
	c.mu.Lock()
	c.edit = nil
	c.mu.Unlock()
}

// SubmitEdit coerces the form's numeric fields, applies the update and
// reloads the set. Unparseable coordinates are rejected before anything goes
// on the wire.
func (c *RecordsController) SubmitEdit(ctx context.Context, form EditForm) error {
	lat, err := strconv.ParseFloat(form.Lat, 64)
	if err != nil {
		return &ValidationError{Msg: "invalid latitude"}
	}
	lng, err := strconv.ParseFloat(form.Lng, 64)
	if err != nil {
		return &ValidationError{Msg: "invalid longitude"}
	}

	var fields interface{}
	switch form.Kind {
	case records.KindLocation:
		fields = map[string]interface{}{
			"query":        form.Query,
			"lat":          lat,
			"lng":          lng,
			"display_name": form.DisplayName,
			"source":       form.Source,
		}
	case records.KindWeather:
		fields = map[string]interface{}{
			"lat":  lat,
			"lng":  lng,
			"kind": form.SnapshotKind,
		}
	case records.KindRange:
		fields = map[string]interface{}{
			"query":      form.Query,
			"lat":        lat,
			"lng":        lng,
			"start_date": form.StartDate,
			"end_date":   form.EndDate,
		}
	default:
		return &ValidationError{Msg: "unknown record kind"}
	}

	if err := c.client.Update(ctx, form.Kind, form.ID, fields); err != nil {
		log.Warn().Err(err).Int64("id", form.ID).Msg("record update failed")
		return err
	}

	c.mu.Lock()
	c.edit = nil
	c.mu.Unlock()

	c.Load(ctx)
	return nil
}

// Delete removes one record directly and reloads. Confirmation-gated flows
// should go through BeginDelete/ConfirmDelete instead.
func (c *RecordsController) Delete(ctx context.Context, kind records.Kind, id int64) error {
	if err := c.client.Delete(ctx, kind, id); err != nil {
		return err
	}
	c.Load(ctx)
	return nil
}

func (c *RecordsController) setEdit(form EditForm) {
	c.mu.Lock()
	c.edit = &form
	c.mu.Unlock()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
