package portal

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	perr "lexflow/internal/platform/errors"
)

// rowSummary mirrors the per-row cells pulled out of the results grid
type rowSummary struct {
	Process string `json:"process"`
	Court   string `json:"court"`
	Type    string `json:"type"`
	Date    string `json:"date"`
	Class   string `json:"class"`
}

// collectRowsJS walks every mat-row in source order and reads its cells
// Missing cells yield empty strings; rows are never dropped here
const collectRowsJS = `(() => {
	const cell = (row, sel) => {
		const el = row.querySelector(sel);
		return el ? el.innerText.trim() : "";
	};
	return Array.from(document.querySelectorAll("mat-row")).map((row) => ({
		process: cell(row, ".mat-column-numeroprocessocommascara"),
		court:   cell(row, ".mat-column-siglaTribunal"),
		type:    cell(row, ".mat-column-tipoComunicacao"),
		date:    cell(row, ".mat-column-datadisponibilizacao"),
		class:   cell(row, ".mat-column-nomeClasse"),
	}));
})()`

// clickDetailJS clicks the row-scoped detail affordance, trying the tooltip
// button first and falling back to aria-label and the actions column
const clickDetailJS = `((i) => {
	const row = document.querySelectorAll("mat-row")[i];
	if (!row) return false;
	const btn = row.querySelector('button[mattooltip="Visualizar Detalhes"]')
		|| row.querySelector('button[aria-label="Visualizar Detalhes"]')
		|| row.querySelector(".mat-column-acoes button");
	if (!btn) return false;
	btn.click();
	return true;
})(%d)`

const dialogTextJS = `(() => {
	const d = document.querySelector("mat-dialog-container");
	return d ? d.innerText.trim() : "";
})()`

// Collect extracts every result row, opening the detail dialog per row for
// the full notice text; rows whose dialog cannot be read keep a synthesized
// summary so acquisition failures never drop records. A dead browser aborts
// the whole run instead: degraded rows must never be committed just because
// the operator closed the window
func (d *Driver) Collect(ctx context.Context) ([]RawNotice, error) {
	if d.state != StateResultsReady {
		return nil, perr.Internalf("portal driver not in results state (%s)", d.state)
	}

	rows, err := d.collectRows()
	if err != nil {
		d.fail()
		return nil, perr.Wrap(err, perr.ErrorCodeNavigation, "results grid read failed")
	}
	d.log.Info().Int("rows", len(rows)).Msg("results grid read")

	notices := make([]RawNotice, 0, len(rows))
	for i, row := range rows {
		select {
		case <-ctx.Done():
			return nil, perr.SessionAbortedf("sync canceled during extraction")
		case <-d.browser.Done():
			d.fail()
			return nil, perr.SessionAbortedf("browser closed during extraction")
		default:
		}

		n := RawNotice{
			ProcessNumber:   row.Process,
			Court:           row.Court,
			NoticeType:      row.Type,
			PublicationDate: row.Date,
			CaseClass:       row.Class,
		}

		content, err := d.readRow(ctx, i)
		if err != nil {
			// a dead browser fails every remaining row the same way; that
			// is a run failure, not a per-row one
			if d.browser.Err() != nil {
				d.fail()
				return nil, perr.SessionAbortedf("browser closed during extraction")
			}
			d.log.Warn().Err(err).Int("row", i).Msg("detail dialog unavailable; using summary")
		}
		if content == "" {
			content = fallbackContent(n)
		}
		n.Content = content
		notices = append(notices, n)
	}
	return notices, nil
}

// readGrid reads every mat-row summary in source order
func (d *Driver) readGrid() ([]rowSummary, error) {
	var rows []rowSummary
	if err := chromedp.Run(d.browser, chromedp.Evaluate(collectRowsJS, &rows)); err != nil {
		return nil, err
	}
	return rows, nil
}

// readDetail opens the detail dialog for row i and returns its text
// The dialog is always dismissed before the next row is processed
func (d *Driver) readDetail(ctx context.Context, i int) (string, error) {
	var clicked bool
	if err := chromedp.Run(d.browser, chromedp.Evaluate(fmt.Sprintf(clickDetailJS, i), &clicked)); err != nil {
		return "", err
	}
	if !clicked {
		return "", perr.NotFoundf("row %d has no detail affordance", i)
	}

	content, err := d.awaitDialog(ctx)

	// Escape closes the dialog on success and on timeout alike
	if closeErr := chromedp.Run(d.browser, chromedp.KeyEvent(kb.Escape)); closeErr != nil {
		d.log.Warn().Err(closeErr).Int("row", i).Msg("dialog dismiss failed")
	}
	_ = chromedp.Run(d.browser, chromedp.Sleep(300*time.Millisecond))

	return content, err
}

// awaitDialog polls for the dialog text within the per-row budget, checking
// the caller context and the browser every tick
func (d *Driver) awaitDialog(ctx context.Context) (string, error) {
	deadline := time.Now().Add(d.cfg.DetailWait)
	tick := time.NewTicker(200 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", perr.SessionAbortedf("sync canceled while reading detail dialog")
		case <-d.browser.Done():
			return "", perr.SessionAbortedf("browser closed while reading detail dialog")
		case <-tick.C:
			var text string
			if err := chromedp.Run(d.browser, chromedp.Evaluate(dialogTextJS, &text)); err != nil {
				return "", err
			}
			if text != "" {
				return text, nil
			}
			if time.Now().After(deadline) {
				return "", perr.Unavailablef("detail dialog did not open within %s", d.cfg.DetailWait)
			}
		}
	}
}

// fallbackContent synthesizes a minimal notice body from the summary cells
func fallbackContent(n RawNotice) string {
	return fmt.Sprintf("Tipo: %s | Classe: %s | Tribunal: %s", n.NoticeType, n.CaseClass, n.Court)
}
