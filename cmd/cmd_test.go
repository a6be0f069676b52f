package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/etnz/importer"
	"github.com/etnz/importer/catalog"
	"github.com/etnz/importer/store"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// testEnv points the global flags to a temporary workspace.
type testEnv struct {
	dir     string
	draft   string
	catalog string
}

func newTestEnv(t *testing.T, assets ...importer.Asset) *testEnv {
	t.Helper()
	dir := t.TempDir()
	e := &testEnv{
		dir:     dir,
		draft:   filepath.Join(dir, "draft"),
		catalog: filepath.Join(dir, "catalog.jsonl"),
	}
	e.setCatalog(t, assets...)

	for _, env := range []string{EnvDraft, EnvCatalog, EnvAPIURL, EnvAPIToken, EnvPortfolio} {
		t.Setenv(env, "")
	}
	setFlag(t, draftPath, e.draft)
	setFlag(t, catalogName, e.catalog)
	setFlag(t, apiURL, "")
	setFlag(t, apiToken, "")
	setFlag(t, envFile, filepath.Join(dir, "missing.env"))
	return e
}

// setFlag overrides a global flag for the duration of the test.
func setFlag(t *testing.T, p *string, value string) {
	old := *p
	*p = value
	t.Cleanup(func() { *p = old })
}

func (e *testEnv) setCatalog(t *testing.T, assets ...importer.Asset) {
	t.Helper()
	if err := catalog.WriteFile(e.catalog, assets); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
}

func (e *testEnv) writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("cannot write %s: %v", name, err)
	}
	return path
}

// saved reads the draft from disk.
func (e *testEnv) saved(t *testing.T) *importer.Draft {
	t.Helper()
	kv, err := store.Open(e.draft)
	if err != nil {
		t.Fatalf("store.Open() failed: %v", err)
	}
	defer kv.Close()
	d, err := importer.NewDraftStore(kv).Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	return d
}

func (e *testEnv) candidate(t *testing.T, id string) *importer.Candidate {
	t.Helper()
	d := e.saved(t)
	if d == nil {
		t.Fatalf("no draft")
	}
	c, err := d.Batch.Get(id)
	if err != nil {
		t.Fatalf("Get(%q) failed: %v", id, err)
	}
	return c
}

func run(t *testing.T, cmd subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("invalid arguments %q: %v", args, err)
	}
	return cmd.Execute(context.Background(), f)
}

var (
	aapl = importer.Asset{ID: 1, Symbol: "AAPL", Name: "Apple Inc.", Currency: "USD"}
	nvda = importer.Asset{ID: 4, Symbol: "NVDA", Name: "NVIDIA Corp", Currency: "USD"}
)

const statement = `Id,Date,Type,Symbol,Quantity,Price,Total
tx-aapl,2025-03-14,buy,AAPL,10,150,1500
tx-nvda,2025-03-15,buy,nvda,2,,
`

func TestImportWorkflow(t *testing.T) {
	e := newTestEnv(t, aapl)
	file := e.writeFile(t, "march.csv", statement)

	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		var req struct {
			Transactions []importer.Payload `json:"transactions"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("invalid request: %v", err)
		}
		if len(req.Transactions) != 2 {
			t.Errorf("got %d transactions, want 2", len(req.Transactions))
		}
		io.WriteString(w, `{"created_transactions": [], "summary": {"total_created": 2, "total_failed": 0, "errors": []}}`)
	}))
	defer srv.Close()
	setFlag(t, apiURL, srv.URL)

	if got := run(t, &ingestCmd{}, file); got != subcommands.ExitSuccess {
		t.Fatalf("ingest = %v, want success", got)
	}
	if got := e.candidate(t, "tx-aapl"); got.AssetID != aapl.ID {
		t.Errorf("AAPL AssetID = %d, want %d", got.AssetID, aapl.ID)
	}
	if got := run(t, &ingestCmd{}, file); got != subcommands.ExitFailure {
		t.Errorf("second ingest = %v, want failure while a draft is in progress", got)
	}

	// NVDA is unknown and has no price: nothing can be sent.
	if got := run(t, &commitCmd{}, "-p", "7"); got != subcommands.ExitFailure {
		t.Errorf("commit = %v, want failure", got)
	}
	if n := requests.Load(); n != 0 {
		t.Errorf("%d requests sent for an incomplete draft", n)
	}

	if got := run(t, &editCmd{}, "tx-nv", "total", "1800"); got != subcommands.ExitSuccess {
		t.Fatalf("edit = %v, want success", got)
	}
	if got := e.candidate(t, "tx-nvda"); !got.Price.Equal(decimal.NewFromInt(900)) {
		t.Errorf("derived price = %v, want 900", got.Price)
	}

	e.setCatalog(t, aapl, nvda)
	if got := run(t, &reconcileCmd{}); got != subcommands.ExitSuccess {
		t.Fatalf("reconcile = %v, want success", got)
	}
	if got := e.candidate(t, "tx-nvda"); got.AssetID != nvda.ID || got.Name != nvda.Name {
		t.Errorf("NVDA = %d %q, want %d %q", got.AssetID, got.Name, nvda.ID, nvda.Name)
	}

	if got := run(t, &commitCmd{}, "-p", "7"); got != subcommands.ExitSuccess {
		t.Fatalf("commit = %v, want success", got)
	}
	if n := requests.Load(); n != 1 {
		t.Errorf("%d requests sent, want 1", n)
	}
	if d := e.saved(t); d != nil {
		t.Errorf("draft not cleared: %d transactions", d.Batch.Len())
	}
}

func TestCommit_Partial(t *testing.T) {
	e := newTestEnv(t, aapl, nvda)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"created_transactions": [], "summary": {"total_created": 1, "total_failed": 1, "errors": ["NVDA: duplicate"]}}`)
	}))
	defer srv.Close()
	setFlag(t, apiURL, srv.URL)

	if got := run(t, &ingestCmd{}, e.writeFile(t, "s.csv", statement)); got != subcommands.ExitSuccess {
		t.Fatalf("ingest = %v, want success", got)
	}
	run(t, &editCmd{}, "tx-nvda", "price", "900")

	if got := run(t, &commitCmd{}, "-p", "7"); got != subcommands.ExitFailure {
		t.Errorf("commit = %v, want failure", got)
	}
	if d := e.saved(t); d == nil || d.Batch.Len() != 2 {
		t.Errorf("the whole draft should be kept")
	}
}

func TestCommit_NoPortfolio(t *testing.T) {
	newTestEnv(t)
	if got := run(t, &commitCmd{}); got != subcommands.ExitUsageError {
		t.Errorf("commit = %v, want usage error", got)
	}
}

func TestAddSelectRm(t *testing.T) {
	e := newTestEnv(t, aapl, nvda)

	if got := run(t, &addCmd{}, "-date", "2025-03-20", "-symbol", "GOOG", "-quantity", "3", "-price", "100"); got != subcommands.ExitSuccess {
		t.Fatalf("add = %v, want success", got)
	}
	d := e.saved(t)
	if d == nil || d.Batch.Len() != 1 {
		t.Fatalf("want one transaction in the draft")
	}
	var id string
	for c := range d.Batch.All() {
		id = c.ID
		if !c.TotalAmount.Equal(decimal.NewFromInt(300)) {
			t.Errorf("TotalAmount = %v, want 300", c.TotalAmount)
		}
		if c.Resolved() {
			t.Errorf("GOOG should not be resolved")
		}
	}

	if got := run(t, &selectCmd{}, id[:8], "4"); got != subcommands.ExitSuccess {
		t.Fatalf("select = %v, want success", got)
	}
	if got := e.candidate(t, id); got.AssetID != nvda.ID || got.Symbol != "NVDA" {
		t.Errorf("selected = %d %q, want NVDA", got.AssetID, got.Symbol)
	}
	if got := run(t, &selectCmd{}, id[:8], "NOPE"); got != subcommands.ExitFailure {
		t.Errorf("select of an unknown asset = %v, want failure", got)
	}

	if got := run(t, &rmCmd{}, id[:8]); got != subcommands.ExitSuccess {
		t.Fatalf("rm = %v, want success", got)
	}
	if d := e.saved(t); d == nil || d.Batch.Len() != 0 {
		t.Errorf("draft should be empty")
	}
	if got := run(t, &rmCmd{}, "missing"); got != subcommands.ExitFailure {
		t.Errorf("rm of an unknown id = %v, want failure", got)
	}
}

func TestAdd_InvalidValue(t *testing.T) {
	e := newTestEnv(t)
	if got := run(t, &addCmd{}, "-quantity", "ten"); got != subcommands.ExitUsageError {
		t.Errorf("add = %v, want usage error", got)
	}
	if d := e.saved(t); d != nil {
		t.Errorf("nothing should be saved")
	}
}

func TestEdit_Usage(t *testing.T) {
	newTestEnv(t)
	if got := run(t, &editCmd{}, "x"); got != subcommands.ExitUsageError {
		t.Errorf("edit = %v, want usage error", got)
	}
	if got := run(t, &editCmd{}, "x", "color", "blue"); got != subcommands.ExitUsageError {
		t.Errorf("edit of an unknown field = %v, want usage error", got)
	}
}

func TestEdit_KeepsTotal(t *testing.T) {
	e := newTestEnv(t, aapl)
	run(t, &ingestCmd{}, e.writeFile(t, "s.csv", statement))

	// with a total and a price, the quantity is derived.
	if got := run(t, &editCmd{}, "tx-aapl", "price", "100"); got != subcommands.ExitSuccess {
		t.Fatalf("edit = %v, want success", got)
	}
	got := e.candidate(t, "tx-aapl")
	if !got.Quantity.Equal(decimal.NewFromInt(15)) || !got.TotalAmount.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("got %v x %v = %v, want 15 x 100 = 1500", got.Quantity, got.Price, got.TotalAmount)
	}
	if !strings.Contains((&editCmd{}).Usage(), "unless quantity was edited") {
		t.Errorf("usage does not describe the derivation order")
	}
}

func TestCancel(t *testing.T) {
	e := newTestEnv(t, aapl)
	run(t, &ingestCmd{}, e.writeFile(t, "s.csv", statement))

	if got := run(t, &cancelCmd{}); got != subcommands.ExitSuccess {
		t.Fatalf("cancel = %v, want success", got)
	}
	if d := e.saved(t); d != nil {
		t.Errorf("draft should be dropped")
	}
	if got := run(t, &ingestCmd{}, e.writeFile(t, "s.csv", statement)); got != subcommands.ExitSuccess {
		t.Errorf("ingest after cancel = %v, want success", got)
	}
}

func TestLookup(t *testing.T) {
	e := newTestEnv(t)
	run(t, &ingestCmd{}, e.writeFile(t, "s.csv", "Id,Date,Symbol\nab-1,2025-01-01,A\nab-2,2025-01-01,B\nc,2025-01-01,C\n"))

	w, err := openWorkspace(context.Background())
	if err != nil {
		t.Fatalf("openWorkspace() failed: %v", err)
	}
	defer w.Close()

	tests := []struct {
		prefix  string
		want    string
		wantErr bool
	}{
		{"ab-1", "ab-1", false},
		{"c", "c", false},
		{"ab", "", true},
		{"z", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := w.lookup(tt.prefix)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("lookup(%q) = %q, %v, want %q (error %v)", tt.prefix, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestCatalogExport(t *testing.T) {
	e := newTestEnv(t, nvda, aapl)
	out := filepath.Join(e.dir, "export.jsonl")

	if got := run(t, &catalogExportCmd{}, out); got != subcommands.ExitSuccess {
		t.Fatalf("export = %v, want success", got)
	}
	assets, err := catalog.File(out).Assets(context.Background())
	if err != nil {
		t.Fatalf("Assets() failed: %v", err)
	}
	if len(assets) != 2 || assets[0].Symbol != "AAPL" {
		t.Errorf("exported %v, want AAPL then NVDA", assets)
	}
}

func TestSetting(t *testing.T) {
	newTestEnv(t)
	t.Setenv(EnvCatalog, "from-env.jsonl")

	empty := ""
	if got := setting(&empty, EnvCatalog, "default"); got != "from-env.jsonl" {
		t.Errorf("setting() = %q, want the environment", got)
	}
	value := "from-flag.jsonl"
	if got := setting(&value, EnvCatalog, "default"); got != value {
		t.Errorf("setting() = %q, want the flag", got)
	}
	if got := setting(&empty, EnvDraft, "default"); got != "default" {
		t.Errorf("setting() = %q, want the default", got)
	}

	t.Setenv(EnvPortfolio, "12")
	if got, err := portfolioID(0); err != nil || got != 12 {
		t.Errorf("portfolioID(0) = %d, %v, want 12", got, err)
	}
	if got, _ := portfolioID(3); got != 3 {
		t.Errorf("portfolioID(3) = %d, want 3", got)
	}
}

func TestRegister(t *testing.T) {
	c := subcommands.NewCommander(flag.NewFlagSet("pci", flag.ContinueOnError), "pci")
	Register(c)
	for _, name := range []string{"ingest", "add", "edit", "rm", "select", "review", "reconcile", "watch", "commit", "cancel", "providers", "catalog", "topic"} {
		if !Registered(c, name) {
			t.Errorf("command %q is not registered", name)
		}
	}
	if Registered(c, "hello") {
		t.Errorf("hello should not be registered")
	}

	completion := Completion(c)
	if _, ok := completion.Sub["commit"].Flags["p"]; !ok {
		t.Errorf("commit -p is not completed")
	}
}

func TestTopic(t *testing.T) {
	if got := run(t, &topicCmd{}, "deriv"); got != subcommands.ExitSuccess {
		t.Errorf("topic deriv = %v, want success", got)
	}
	if got := run(t, &topicCmd{}, "nope"); got != subcommands.ExitUsageError {
		t.Errorf("topic nope = %v, want usage error", got)
	}
	if got := run(t, &topicCmd{}, "-list"); got != subcommands.ExitSuccess {
		t.Errorf("topic -list = %v, want success", got)
	}

	md, err := topicList()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(md, "| derivation | Derivation |") || strings.Contains(md, "| readme |") {
		t.Errorf("unexpected topic list:\n%s", md)
	}
}
