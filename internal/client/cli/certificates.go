package cli

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/cgea-sas/console/internal/client/api"
	"github.com/cgea-sas/console/internal/client/query"
	"github.com/cgea-sas/console/internal/client/services"
)

const defaultRecent = 5

var errUsage = errors.New("usage")

// draft is a form kept after a failed create (id 0) or edit.
type draft[F any] struct {
	id   int64
	form F
}

// certCommands is the command set of one certificate kind.
type certCommands[T any, F services.Form[F]] struct {
	app    *App
	svc    *services.CertificateService[T, F]
	label  string
	export api.ExportKind

	table  []column[T]
	detail func(T) []field
	id     func(T) int64
	scan   func(T) string
	from   func(T) F
	fill   func(ctx context.Context, a *App, f F) (F, error)

	loaded bool
	draft  *draft[F]
}

func (c *certCommands[T, F]) reset() {
	c.loaded = false
	c.draft = nil
	c.svc.View().SetRecords(nil)
}

func (c *certCommands[T, F]) run(ctx context.Context, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub, args = strings.ToLower(args[0]), args[1:]
	}

	switch sub {
	case "list", "ls":
		return c.list(ctx)
	case "reload":
		c.loaded = false
		return c.list(ctx)
	case "next":
		return c.movePage(ctx, func(p int) int { return p + 1 })
	case "prev":
		return c.movePage(ctx, func(p int) int { return p - 1 })
	case "page":
		n, err := intArg(args, "page N")
		if err != nil {
			return err
		}
		return c.movePage(ctx, func(int) int { return n - 1 })
	case "size":
		n, err := intArg(args, "size N")
		if err != nil {
			return err
		}
		c.svc.View().SetPageSize(n)
		return c.list(ctx)
	case "filter":
		return c.filter(ctx, args)
	case "clear":
		c.svc.View().ClearFilters()
		return c.list(ctx)
	case "sort":
		return c.sort(ctx, args)
	case "stats":
		return c.stats(ctx)
	case "chart":
		return c.chart(ctx, args)
	case "recent":
		return c.recent(ctx, args)
	case "show":
		return c.show(ctx, args)
	case "create", "new":
		return c.create(ctx)
	case "edit":
		return c.edit(ctx, args)
	case "delete", "rm":
		return c.delete(ctx, args)
	case "export":
		fmt.Fprintf(c.app.out, "Excel export: %s\n", c.app.api.ExportURL(c.export))
		return nil
	}
	return fmt.Errorf("unknown %s command %q", c.label, sub)
}

// ensureLoaded fetches the list once; reload forces a new fetch.
func (c *certCommands[T, F]) ensureLoaded(ctx context.Context) error {
	if c.loaded {
		return nil
	}
	if err := c.svc.Load(ctx); err != nil {
		return err
	}
	c.loaded = true
	return nil
}

func (c *certCommands[T, F]) list(ctx context.Context) error {
	if err := c.ensureLoaded(ctx); err != nil {
		return err
	}
	st := c.svc.View().State()
	if !st.Filters.IsZero() {
		fmt.Fprintf(c.app.out, "Filters: %s\n", describeFilters(st.Filters))
	}
	return renderPage(c.app.out, c.table, c.svc.View().Result())
}

func (c *certCommands[T, F]) movePage(ctx context.Context, to func(int) int) error {
	if err := c.ensureLoaded(ctx); err != nil {
		return err
	}
	v := c.svc.View()
	v.SetPage(to(v.State().Page))
	return c.list(ctx)
}

// filter sets or, with an empty value, removes filters. Without arguments
// it lists the keys.
func (c *certCommands[T, F]) filter(ctx context.Context, args []string) error {
	cols := c.svc.View().Columns()
	if len(args) == 0 {
		fmt.Fprintf(c.app.out, "Filter keys: date from to month year %s\n", strings.Join(slices.Sorted(maps.Keys(cols.Text)), " "))
		return nil
	}
	kv, err := ParseAssignments(args)
	if err != nil {
		return err
	}
	for k := range kv {
		if _, ok := cols.Text[k]; !ok && !slices.Contains(dateFilterKeys, k) {
			return fmt.Errorf("unknown filter %q", k)
		}
	}

	c.svc.View().UpdateFilters(func(f *query.Filters) {
		for k, v := range kv {
			switch k {
			case "date":
				f.Date = v
			case "from":
				f.DateStart = v
			case "to":
				f.DateEnd = v
			case "month":
				f.Month = v
			case "year":
				f.Year = v
			default:
				if f.Text == nil {
					f.Text = map[string]string{}
				}
				if v == "" {
					delete(f.Text, k)
				} else {
					f.Text[k] = v
				}
			}
		}
	})
	return c.list(ctx)
}

var dateFilterKeys = []string{"date", "from", "to", "month", "year"}

func describeFilters(f query.Filters) string {
	var parts []string
	for _, p := range []struct{ k, v string }{
		{"date", f.Date}, {"from", f.DateStart}, {"to", f.DateEnd}, {"month", f.Month}, {"year", f.Year},
	} {
		if p.v != "" {
			parts = append(parts, p.k+"="+p.v)
		}
	}
	for _, k := range slices.Sorted(maps.Keys(f.Text)) {
		if f.Text[k] != "" {
			parts = append(parts, k+"="+f.Text[k])
		}
	}
	return strings.Join(parts, " ")
}

func (c *certCommands[T, F]) sort(ctx context.Context, args []string) error {
	cols := c.svc.View().Columns()
	if len(args) != 1 {
		return fmt.Errorf("%w: sort KEY (%s)", errUsage, strings.Join(slices.Sorted(maps.Keys(cols.Sort)), " "))
	}
	key := strings.ToLower(args[0])
	if _, ok := cols.Sort[key]; !ok {
		return fmt.Errorf("unknown sort key %q", key)
	}
	v := c.svc.View()
	v.ToggleSort(key)
	fmt.Fprintf(c.app.out, "Sorted by %s %s\n", key, v.State().Sort.Direction)
	return c.list(ctx)
}

func (c *certCommands[T, F]) stats(ctx context.Context) error {
	if err := c.ensureLoaded(ctx); err != nil {
		return err
	}
	return renderStats(c.app.out, c.svc.View().Stats())
}

func (c *certCommands[T, F]) chart(ctx context.Context, args []string) error {
	cols := c.svc.View().Columns()
	if len(args) != 1 {
		return fmt.Errorf("%w: chart DIM (%s)", errUsage, strings.Join(slices.Sorted(maps.Keys(cols.Charts)), " "))
	}
	ch, ok := cols.Charts[strings.ToLower(args[0])]
	if !ok {
		return fmt.Errorf("unknown chart %q", args[0])
	}
	if err := c.ensureLoaded(ctx); err != nil {
		return err
	}
	return renderChart(c.app.out, ch.Title, query.Series(c.svc.View().Filtered(), ch))
}

func (c *certCommands[T, F]) recent(ctx context.Context, args []string) error {
	n := defaultRecent
	if len(args) > 0 {
		var err error
		if n, err = intArg(args, "recent [N]"); err != nil {
			return err
		}
	}
	if err := c.ensureLoaded(ctx); err != nil {
		return err
	}
	v := c.svc.View()
	items := query.Recent(v.Records(), v.Columns(), n)
	if len(items) == 0 {
		fmt.Fprintln(c.app.out, "No records.")
		return nil
	}
	return renderTable(c.app.out, c.table, items)
}

func (c *certCommands[T, F]) show(ctx context.Context, args []string) error {
	id, err := idArg(args, "show ID")
	if err != nil {
		return err
	}
	rec, err := c.svc.Get(ctx, id)
	if err != nil {
		return err
	}
	fields := append(c.detail(rec), field{"Scan", c.app.api.ScanURL(c.scan(rec))})
	return renderFields(c.app.out, fields)
}

// create opens the form, pre-filled with the draft of a failed attempt.
func (c *certCommands[T, F]) create(ctx context.Context) error {
	var form F
	if c.draft != nil && c.draft.id == 0 {
		fmt.Fprintln(c.app.out, "Resuming the unsaved form.")
		form = c.draft.form
	}
	form, err := c.fill(ctx, c.app, form)
	if err != nil {
		return err
	}

	rec, normalized, err := c.svc.Create(ctx, form)
	if err != nil {
		c.draft = &draft[F]{form: normalized}
		return fmt.Errorf("%s not saved, the form is kept for the next 'create': %w", c.label, err)
	}
	c.draft = nil
	fmt.Fprintf(c.app.out, "%s %d created.\n", c.label, c.id(rec))
	return c.refresh(ctx)
}

func (c *certCommands[T, F]) edit(ctx context.Context, args []string) error {
	id, err := idArg(args, "edit ID")
	if err != nil {
		return err
	}

	var form F
	if c.draft != nil && c.draft.id == id {
		fmt.Fprintln(c.app.out, "Resuming the unsaved form.")
		form = c.draft.form
	} else {
		rec, err := c.svc.Get(ctx, id)
		if err != nil {
			return err
		}
		form = c.from(rec)
	}
	if form, err = c.fill(ctx, c.app, form); err != nil {
		return err
	}

	_, normalized, err := c.svc.Update(ctx, id, form)
	if err != nil {
		c.draft = &draft[F]{id: id, form: normalized}
		return fmt.Errorf("%s %d not saved, the form is kept for the next 'edit %d': %w", c.label, id, id, err)
	}
	c.draft = nil
	fmt.Fprintf(c.app.out, "%s %d updated.\n", c.label, id)
	return c.refresh(ctx)
}

func (c *certCommands[T, F]) delete(ctx context.Context, args []string) error {
	id, err := idArg(args, "delete ID")
	if err != nil {
		return err
	}
	ok, err := Confirm(c.app.reader, fmt.Sprintf("Delete %s %d?", c.label, id), c.app.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(c.app.out, "Cancelled.")
		return nil
	}
	if err := c.svc.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(c.app.out, "%s %d deleted.\n", c.label, id)
	return c.refresh(ctx)
}

// refresh reloads the list after a mutation. Filters and sort survive.
func (c *certCommands[T, F]) refresh(ctx context.Context) error {
	c.loaded = false
	return c.ensureLoaded(ctx)
}

func intArg(args []string, usage string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: %s", errUsage, usage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %q is not a number", errUsage, usage, args[0])
	}
	return n, nil
}

func idArg(args []string, usage string) (int64, error) {
	n, err := intArg(args, usage)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: %s: id must be positive", errUsage, usage)
	}
	return int64(n), nil
}
