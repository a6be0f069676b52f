package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/etnz/importer"
	"github.com/etnz/importer/api"
	"github.com/etnz/importer/catalog"
	"github.com/etnz/importer/store"
)

// client returns the portfolio service client configured by flags or environment.
func client() (*api.Client, error) {
	c, err := api.New(setting(apiURL, EnvAPIURL, ""), setting(apiToken, EnvAPIToken, ""))
	if err != nil {
		return nil, fmt.Errorf("%w (use -api-url or $%s)", err, EnvAPIURL)
	}
	if *verbose {
		c.Verbose()
	}
	return c, nil
}

// openCatalog returns the configured asset catalog, or nil when there is none.
func openCatalog(ctx context.Context) (catalog.Source, func(), error) {
	name := setting(catalogName, EnvCatalog, "")
	switch {
	case name == "":
		return nil, func() {}, nil
	case name == "api":
		c, err := client()
		return c, func() {}, err
	case strings.HasPrefix(name, "postgres://"), strings.HasPrefix(name, "postgresql://"):
		p, err := catalog.OpenPostgres(ctx, name)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	default:
		return catalog.File(name), func() {}, nil
	}
}

// offline commits nothing: it is used when the portfolio service is not configured.
type offline struct{ err error }

func (o offline) CommitBatch(context.Context, int64, []importer.Payload) (*importer.CommitResponse, error) {
	return nil, o.err
}

// workspace holds everything a command needs to work on the import draft.
type workspace struct {
	dir       *importer.Directory
	refresher *catalog.Refresher // nil without a catalog
	session   *importer.Session
	closers   []func()
}

// openWorkspace opens the draft and loads the asset catalog.
// A catalog that cannot be loaded is reported, but the draft remains usable.
func openWorkspace(ctx context.Context) (*workspace, error) {
	w := &workspace{dir: importer.NewDirectory()}

	kv, err := store.Open(setting(draftPath, EnvDraft, defaultDraft))
	if err != nil {
		return nil, err
	}
	w.closers = append(w.closers, func() {
		if err := kv.Close(); err != nil {
			log.Printf("warning, cannot close the draft: %v", err)
		}
	})
	drafts := importer.NewDraftStore(kv)

	var committer importer.Committer
	if c, err := client(); err != nil {
		committer = offline{err}
	} else {
		committer = c
	}

	w.session, err = importer.OpenSession(w.dir, drafts, importer.NewCoordinator(committer, drafts))
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("cannot open the draft: %w", err)
	}
	w.closers = append(w.closers, w.session.Close)

	src, closeSrc, err := openCatalog(ctx)
	if err != nil {
		log.Printf("warning, asset catalog unavailable: %v", err)
		return w, nil
	}
	w.closers = append(w.closers, closeSrc)
	if src == nil {
		return w, nil
	}
	w.refresher = catalog.NewRefresher(src, w.dir)
	// the session reconciles the draft when the directory changes.
	if _, err := w.refresher.Refresh(ctx); err != nil {
		log.Printf("warning, %v", err)
	}
	return w, nil
}

// Close releases the workspace in reverse order of opening.
func (w *workspace) Close() {
	for i := len(w.closers) - 1; i >= 0; i-- {
		w.closers[i]()
	}
	w.closers = nil
}

// lookup finds the candidate whose id starts with 'prefix'.
func (w *workspace) lookup(prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", errors.New("missing transaction id")
	}
	var matches []string
	for _, c := range w.session.Candidates() {
		if c.ID == prefix {
			return c.ID, nil
		}
		if strings.HasPrefix(c.ID, prefix) {
			matches = append(matches, c.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("transaction %q: %w", prefix, importer.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("transaction %q is ambiguous, it matches %d transactions", prefix, len(matches))
	}
}

// asset finds an asset of the directory by id or by symbol.
func (w *workspace) asset(ref string) (importer.Asset, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		for _, a := range w.dir.Assets() {
			if a.ID == importer.AssetID(id) {
				return a, nil
			}
		}
	}
	if a, ok := w.dir.Resolve(ref); ok {
		return a, nil
	}
	if w.refresher == nil {
		return importer.Asset{}, fmt.Errorf("asset %q: no asset catalog configured (use -catalog or $%s)", ref, EnvCatalog)
	}
	return importer.Asset{}, fmt.Errorf("asset %q: %w", ref, importer.ErrNotFound)
}
