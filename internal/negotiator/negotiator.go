// Package negotiator walks a candidate job URL through the barrier sequence
// (cookie banner, redirects, account wall, apply gate) and fills and submits
// the application form behind it. Exactly one visit record is written per
// run, no matter how the run ends.
package negotiator

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/autoapply/internal/driver"
	"github.com/jonathan/autoapply/internal/forms"
	"github.com/jonathan/autoapply/internal/jobinfo"
	"github.com/jonathan/autoapply/internal/profile"
	"github.com/jonathan/autoapply/internal/resolver"
	"github.com/jonathan/autoapply/internal/resume"
	"github.com/jonathan/autoapply/internal/sites"
	"github.com/jonathan/autoapply/internal/visitstore"
)

// Control-text vocabularies, matched case-insensitively against visible
// controls. Order matters: more specific phrases come first.
var (
	// strictCookieTerms are safe on any page; the broader terms are only
	// used on sites known to present a banner.
	strictCookieTerms   = []string{"accept all cookies", "accept cookies", "accept all", "i understand", "got it", "agree"}
	extendedCookieTerms = []string{"accept", "continue", "ok"}

	applyTerms   = []string{"apply now", "start application", "apply for this job", "apply"}
	submitTerms  = []string{"submit application", "send application", "submit", "apply"}
	accountTerms = []string{"continue as guest", "continue with email", "create account", "sign up", "continue", "next"}
	uploadTerms  = []string{"resume", "cv", "curriculum", "cover letter"}
)

// maxButtonTextLen guards against matching long prose blocks that merely
// contain a vocabulary word.
const maxButtonTextLen = 60

// Waits are the bounded pauses between barrier steps.
type Waits struct {
	Banner       time.Duration
	Navigation   time.Duration
	Form         time.Duration
	SubmitVerify time.Duration
}

// DefaultWaits returns the pause bounds used when configuration does not
// override them.
func DefaultWaits() Waits {
	return Waits{
		Banner:       3 * time.Second,
		Navigation:   5 * time.Second,
		Form:         5 * time.Second,
		SubmitVerify: 8 * time.Second,
	}
}

// CandidateSite is one job URL queued for application.
type CandidateSite struct {
	URL string
	// SourceTrackerID links the candidate back to the external tracker row
	// it came from, when there is one.
	SourceTrackerID string
}

// Options wire the negotiator's collaborators.
type Options struct {
	Factory     driver.Factory
	Profile     *profile.Profile
	Resolver    *resolver.Resolver
	Store       visitstore.Store
	Registry    *sites.Registry
	Attachments *resume.Selector
	Waits       Waits
	SkipVisited bool
	Verbose     bool
}

// Negotiator runs the barrier state machine. Safe for concurrent use; each
// Run owns its own driver session and report.
type Negotiator struct {
	opts Options
}

// New creates a negotiator. Zero waits are replaced with defaults.
func New(opts Options) *Negotiator {
	defaults := DefaultWaits()
	if opts.Waits.Banner <= 0 {
		opts.Waits.Banner = defaults.Banner
	}
	if opts.Waits.Navigation <= 0 {
		opts.Waits.Navigation = defaults.Navigation
	}
	if opts.Waits.Form <= 0 {
		opts.Waits.Form = defaults.Form
	}
	if opts.Waits.SubmitVerify <= 0 {
		opts.Waits.SubmitVerify = defaults.SubmitVerify
	}
	return &Negotiator{opts: opts}
}

// Run processes one candidate end to end and returns its report. Run never
// returns an error: every outcome, including panics and cancellation, ends
// in a report and exactly one visit record.
func (n *Negotiator) Run(ctx context.Context, site CandidateSite) *Report {
	url := visitstore.NormalizeURL(site.URL)
	report := &Report{
		RunID:  uuid.New(),
		URL:    url,
		Domain: visitstore.Domain(url),
		Status: visitstore.StatusFailed,
	}
	report.EffectiveDomain = report.Domain

	if n.opts.SkipVisited && n.opts.Store != nil {
		prior, err := n.opts.Store.LookupURL(url)
		if err == nil && prior != nil && prior.Status == visitstore.StatusSuccess {
			// Report-only outcome: the prior success record stays in place,
			// nothing is written.
			report.Status = visitstore.StatusSkipped
			report.BarrierNote = "already applied"
			fmt.Printf("Skipping %s: already applied\n", url)
			return report
		}
	}

	recorded := false
	record := func() {
		if recorded || n.opts.Store == nil {
			return
		}
		recorded = true
		err := n.opts.Store.Record(visitstore.VisitRecord{
			URL:       url,
			Domain:    report.EffectiveDomain,
			Status:    report.Status,
			ErrorNote: report.BarrierNote,
		})
		if err != nil {
			log.Printf("failed to record visit for %s: %v", url, err)
		}
	}
	defer func() {
		if r := recover(); r != nil {
			report.FinalState = StateFailed
			report.Status = visitstore.StatusFailed
			report.BarrierNote = fmt.Sprintf("panic: %v", r)
		}
		record()
	}()

	d, err := n.opts.Factory(ctx)
	if err != nil {
		report.FinalState = StateFailed
		report.BarrierNote = fmt.Sprintf("failed to start browser session: %v", err)
		return report
	}
	defer d.Close()

	if err := n.negotiate(ctx, d, report); err != nil {
		report.FinalState = StateFailed
		report.Status = visitstore.StatusFailed
		report.BarrierNote = err.Error()
		fmt.Printf("Failed %s: %s\n", url, report.BarrierNote)
		return report
	}
	fmt.Printf("Finished %s: %s (%d fields, %d low confidence, %d unresolved)\n",
		url, report.Status, report.FieldsResolved, report.LowConfidenceFields, report.UnresolvedFields)
	return report
}

// negotiate drives the barrier sequence. An error return means a barrier was
// terminal; degraded-but-submitted outcomes come back as nil with the report
// status set to partial.
func (n *Negotiator) negotiate(ctx context.Context, d driver.Driver, report *Report) error {
	cfg := n.opts.Registry.Lookup(report.URL)
	report.SiteType = cfg.Type
	res := n.opts.Resolver
	if len(cfg.SpecificFields) > 0 {
		res = res.WithSiteFields(cfg.SpecificFields)
	}

	if err := d.Navigate(ctx, report.URL); err != nil {
		return &BarrierNotClearableError{Barrier: "navigation", Message: "failed to open page", Cause: err}
	}

	// notes accumulate non-fatal degradations for the final record.
	var notes []string

	n.handleCookies(ctx, d, cfg)
	report.FinalState = StateCookieHandled

	if note := n.resolveRedirect(ctx, d, report); note != "" {
		notes = append(notes, note)
	}
	report.FinalState = StateRedirectResolved

	// Extract job information before any mutating navigation; account and
	// apply gates routinely replace the page.
	jc := n.extractJobInfo(ctx, d, report.URL)
	report.FinalState = StateJobInfoExtracted

	if err := ctx.Err(); err != nil {
		return err
	}
	if cfg.RequiresAccount {
		if note := n.handleAccount(ctx, d, cfg); note != "" {
			notes = append(notes, note)
		}
	}
	report.FinalState = StateAccountHandled

	fields, err := n.discoverFields(ctx, d)
	if err != nil {
		return err
	}
	if cfg.ApplyButtonRequired || len(fields) == 0 {
		if n.clickFirst(ctx, d, applyTerms) {
			time.Sleep(n.opts.Waits.Navigation)
			// Consent banners reappear behind the gate on some hosts.
			n.handleCookies(ctx, d, cfg)
			if fields, err = n.discoverFields(ctx, d); err != nil {
				return err
			}
		}
	}
	report.FinalState = StateApplyGatePassed

	if len(fields) == 0 {
		return &NoFormFoundError{URL: report.URL}
	}
	report.FinalState = StateFormDiscovered
	n.verbosef("discovered %d fields at %s", len(fields), report.URL)

	if err := ctx.Err(); err != nil {
		return err
	}
	fileFields := n.fillFields(ctx, d, res, fields, jc, report)
	report.FinalState = StateFormFilled

	uploadNote := n.uploadAttachment(ctx, d, fileFields, jc)
	if uploadNote != "" {
		notes = append(notes, uploadNote)
	}
	report.FinalState = StateFileUploaded

	if err := ctx.Err(); err != nil {
		return err
	}
	// Error text already on the page must not count against the submission.
	priorErrors := make(map[string]bool)
	if html, err := d.HTML(ctx); err == nil {
		for _, msg := range forms.ValidationErrors(html) {
			priorErrors[msg] = true
		}
	}
	if !n.clickFirst(ctx, d, submitTerms) {
		return &BarrierNotClearableError{Barrier: "submit", Message: "no submit control found"}
	}

	verified := n.verifySubmission(ctx, d, priorErrors)
	report.FinalState = StateSubmitted

	switch {
	case !verified:
		report.Status = visitstore.StatusPartial
		notes = append(notes, (&SubmissionUnverifiedError{Message: "no confirmation observed"}).Error())
	case uploadNote != "":
		report.Status = visitstore.StatusPartial
	case report.UnresolvedFields > 0:
		report.Status = visitstore.StatusPartial
		notes = append(notes, fmt.Sprintf("%d fields left unresolved", report.UnresolvedFields))
	default:
		report.Status = visitstore.StatusSuccess
	}
	report.BarrierNote = strings.Join(notes, "; ")
	return nil
}

// handleCookies dismisses a consent banner when one is present. Best effort:
// a banner that cannot be found or clicked never fails the run.
func (n *Negotiator) handleCookies(ctx context.Context, d driver.Driver, cfg sites.Config) {
	controls, err := d.FindControls(ctx)
	if err != nil {
		return
	}

	terms := strictCookieTerms
	if cfg.CookieButtonText != "" {
		terms = append([]string{strings.ToLower(cfg.CookieButtonText)}, terms...)
	}
	if cfg.HasCookies {
		// The broad terms risk hitting non-banner controls, so they are
		// reserved for sites known to show a banner.
		terms = append(terms, extendedCookieTerms...)
	}

	if ctl, ok := matchControl(controls, terms); ok {
		if err := d.Click(ctx, ctl.Selector); err == nil {
			n.verbosef("dismissed cookie banner via %q", ctl.Text)
			time.Sleep(n.opts.Waits.Banner)
		}
	}
}

// resolveRedirect checks where navigation actually landed. A cross-domain
// redirect that is not a known legitimate hand-off is flagged but never fatal;
// the run continues against the resolved domain. Returns a note for the record
// when the redirect was unexpected.
func (n *Negotiator) resolveRedirect(ctx context.Context, d driver.Driver, report *Report) string {
	current, err := d.CurrentURL(ctx)
	if err != nil || current == "" {
		return ""
	}
	toDomain := visitstore.Domain(current)
	if toDomain == "" || toDomain == report.Domain {
		return ""
	}

	report.EffectiveDomain = toDomain
	if !n.opts.Registry.RedirectAllowed(report.Domain, toDomain) {
		report.UnexpectedRedirect = true
		note := (&UnexpectedRedirectError{From: report.Domain, To: toDomain}).Error()
		n.verbosef("%s", note)
		return note
	}
	n.verbosef("followed redirect %s -> %s", report.Domain, toDomain)
	return ""
}

// extractJobInfo reads the page once and builds the job context used for
// resume selection and generative prompts. Extraction failures degrade to a
// context derived from the URL alone.
func (n *Negotiator) extractJobInfo(ctx context.Context, d driver.Driver, pageURL string) *jobinfo.JobContext {
	jc := &jobinfo.JobContext{}
	if html, err := d.HTML(ctx); err == nil {
		if extracted, err := jobinfo.Extract(html, pageURL); err == nil && extracted != nil {
			jc = extracted
		}
	}
	if jc.CompanyName == "" {
		jc.CompanyName = jobinfo.ExtractCompanyFromURL(pageURL)
	}
	jc.SetCategory(string(resume.Classify(jc.DescriptionSnippet)))
	n.verbosef("job info: title=%q company=%q category=%s", jc.Title, jc.CompanyName, jc.Category())
	return jc
}

// handleAccount passes an account wall by entering the profile email into the
// configured entry point. Passwords are never created; when no email-only
// path exists the gate is noted and the run proceeds best effort. Returns a
// note for the record when the gate could not be cleanly passed.
func (n *Negotiator) handleAccount(ctx context.Context, d driver.Driver, cfg sites.Config) string {
	if cfg.EmailField == "" {
		return "account gate present with no email-only path"
	}

	selector := emailSelector(cfg.EmailField)
	if err := d.WaitVisible(ctx, selector, n.opts.Waits.Form); err != nil {
		return "account email entry point not found"
	}
	if err := d.TypeText(ctx, selector, n.opts.Profile.Email()); err != nil {
		return "failed to enter email at account gate"
	}

	if n.clickFirst(ctx, d, accountTerms) {
		time.Sleep(n.opts.Waits.Navigation)
	}
	return ""
}

// discoverFields snapshots the page and enumerates fillable controls.
func (n *Negotiator) discoverFields(ctx context.Context, d driver.Driver) ([]forms.FieldDescriptor, error) {
	html, err := d.HTML(ctx)
	if err != nil {
		return nil, &BarrierNotClearableError{Barrier: "form", Message: "failed to snapshot page", Cause: err}
	}
	fields, err := forms.Discover(html)
	if err != nil {
		return nil, &BarrierNotClearableError{Barrier: "form", Message: "failed to parse page", Cause: err}
	}
	return fields, nil
}

// fillFields resolves and enters every non-file field, updating the report
// counters, and returns the file fields for the upload step.
func (n *Negotiator) fillFields(ctx context.Context, d driver.Driver, res *resolver.Resolver, fields []forms.FieldDescriptor, jc *jobinfo.JobContext, report *Report) []forms.FieldDescriptor {
	var fileFields []forms.FieldDescriptor
	for _, field := range fields {
		if field.Kind == forms.KindFile {
			fileFields = append(fileFields, field)
			continue
		}

		answer := res.Resolve(ctx, field, jc)
		if answer.Unresolved() {
			report.UnresolvedFields++
			report.UnresolvedQuestions = append(report.UnresolvedQuestions, field.Question())
			n.verbosef("unresolved field %q", field.Question())
			continue
		}

		degraded := n.enterAnswer(ctx, d, field, answer)
		report.FieldsResolved++
		if degraded || answer.Confidence == resolver.ConfidenceLow {
			report.LowConfidenceFields++
		}
	}
	return fileFields
}

// enterAnswer puts one resolved answer into the page. Returns true when the
// answer's confidence should be degraded: entry failed, or a dropdown
// selection did not stick when re-read.
func (n *Negotiator) enterAnswer(ctx context.Context, d driver.Driver, field forms.FieldDescriptor, answer resolver.ResolvedAnswer) bool {
	switch field.Kind {
	case forms.KindSelect:
		if err := d.SelectOption(ctx, field.Selector, answer.OptionValue); err != nil {
			n.verbosef("failed to select %q for %q: %v", answer.Value, field.Question(), err)
			return true
		}
		if v, err := d.ControlValue(ctx, field.Selector); err == nil && v != answer.OptionValue {
			n.verbosef("selection did not stick for %q: wanted %q, page shows %q", field.Question(), answer.OptionValue, v)
			return true
		}
	case forms.KindRadio:
		selector := field.Selector
		if field.Name != "" {
			selector = fmt.Sprintf("input[name=%q][value=%q]", field.Name, answer.OptionValue)
		}
		if err := d.SetChecked(ctx, selector, true); err != nil {
			return true
		}
	case forms.KindCheckbox:
		checked := strings.EqualFold(strings.TrimSpace(answer.Value), "yes")
		if err := d.SetChecked(ctx, field.Selector, checked); err != nil {
			return true
		}
	default:
		if err := d.TypeText(ctx, field.Selector, answer.Value); err != nil {
			return true
		}
	}
	return false
}

// uploadAttachment delivers the category-selected resume to the form's file
// input. Returns a note describing the failure, or "" on success or when the
// form has no file input.
func (n *Negotiator) uploadAttachment(ctx context.Context, d driver.Driver, fileFields []forms.FieldDescriptor, jc *jobinfo.JobContext) string {
	if len(fileFields) == 0 || n.opts.Attachments == nil {
		return ""
	}

	target := fileFields[0]
matching:
	for _, field := range fileFields {
		ident := field.IdentifierText()
		for _, term := range uploadTerms {
			if strings.Contains(ident, term) {
				target = field
				break matching
			}
		}
	}

	path, err := n.opts.Attachments.Attachment(resume.Category(jc.Category()))
	if err != nil {
		return (&UploadError{Path: path, Cause: err}).Error()
	}
	if err := d.SetFileInput(ctx, target.Selector, path); err != nil {
		return (&UploadError{Path: path, Cause: err}).Error()
	}
	// Confirm the control actually holds a file; some hosts silently reject
	// the attachment.
	if value, err := d.ControlValue(ctx, target.Selector); err == nil && value == "" {
		return (&UploadError{Path: path}).Error()
	}
	n.verbosef("attached %s", path)
	return ""
}

// verifySubmission waits out the post-submit transition and checks the
// success signals: a confirmation phrase, the form having disappeared, or no
// new validation-error text. Any one is sufficient.
func (n *Negotiator) verifySubmission(ctx context.Context, d driver.Driver, priorErrors map[string]bool) bool {
	time.Sleep(n.opts.Waits.SubmitVerify)

	html, err := d.HTML(ctx)
	if err != nil {
		return false
	}
	lower := strings.ToLower(html)
	for _, phrase := range confirmationPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	fields, err := forms.Discover(html)
	if err != nil {
		return false
	}
	if len(fields) == 0 {
		return true
	}
	for _, msg := range forms.ValidationErrors(html) {
		if !priorErrors[msg] {
			return false
		}
	}
	return true
}

var confirmationPhrases = []string{
	"thank you for applying",
	"thanks for applying",
	"application received",
	"application submitted",
	"successfully submitted",
	"your application has been",
}

// clickFirst clicks the first visible control matching the vocabulary.
func (n *Negotiator) clickFirst(ctx context.Context, d driver.Driver, terms []string) bool {
	controls, err := d.FindControls(ctx)
	if err != nil {
		return false
	}
	ctl, ok := matchControl(controls, terms)
	if !ok {
		return false
	}
	if err := d.Click(ctx, ctl.Selector); err != nil {
		n.verbosef("failed to click %q: %v", ctl.Text, err)
		return false
	}
	return true
}

// matchControl returns the first visible enabled control whose text contains
// one of the terms. Terms are tried in order so specific phrases win.
func matchControl(controls []driver.Control, terms []string) (driver.Control, bool) {
	for _, term := range terms {
		for _, ctl := range controls {
			if !ctl.Visible || !ctl.Enabled {
				continue
			}
			text := strings.ToLower(strings.TrimSpace(ctl.Text))
			if text == "" || len(text) > maxButtonTextLen {
				continue
			}
			if strings.Contains(text, term) {
				return ctl, true
			}
		}
	}
	return driver.Control{}, false
}

// emailSelector turns a configured email-field identifier into a selector.
// Values that already look like selectors pass through untouched.
func emailSelector(field string) string {
	if strings.HasPrefix(field, "#") || strings.ContainsAny(field, "[.>") {
		return field
	}
	return fmt.Sprintf("input[name=%q], #%s", field, field)
}

func (n *Negotiator) verbosef(format string, args ...any) {
	if n.opts.Verbose {
		log.Printf(format, args...)
	}
}
