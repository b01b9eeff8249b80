package app

import (
	"context"
	"fmt"
	"time"

	"github.com/DaniellePashayan/post-rejections-idx/internal/domain/rejection"
	"github.com/DaniellePashayan/post-rejections-idx/internal/idx"
)

// fakeRepo is an in-memory rejection.Repository recording every Update
// snapshot in order.
type fakeRepo struct {
	updates   []rejection.Rejection
	pending   map[string][]*rejection.Rejection
	unposted  map[string]int
	updateErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		pending:  make(map[string][]*rejection.Rejection),
		unposted: make(map[string]int),
	}
}

func partitionKey(fileName string, group int) string {
	return fmt.Sprintf("%s|%d", fileName, group)
}

func (r *fakeRepo) AddBatch(ctx context.Context, recs []*rejection.Rejection) error { return nil }

func (r *fakeRepo) Update(ctx context.Context, rec *rejection.Rejection) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	rec.UpdatedAt = time.Now()
	r.updates = append(r.updates, *rec)
	return nil
}

func (r *fakeRepo) Get(ctx context.Context, invoiceNumber int64, fileName string) (*rejection.Rejection, error) {
	return nil, fmt.Errorf("not found")
}

func (r *fakeRepo) ListPending(ctx context.Context, fileName string, group int) ([]*rejection.Rejection, error) {
	return r.pending[partitionKey(fileName, group)], nil
}

func (r *fakeRepo) CountUnposted(ctx context.Context, fileName string, group int) (int, error) {
	return r.unposted[partitionKey(fileName, group)], nil
}

type fakePatient struct {
	resetErr  error
	sig       idx.ModalSignal
	ok        bool
	selectErr error
	selects   int
}

func (f *fakePatient) Reset() error { return f.resetErr }

func (f *fakePatient) Select(invoiceNumber string) (idx.ModalSignal, bool, error) {
	f.selects++
	return f.sig, f.ok, f.selectErr
}

type fakePosting struct {
	enterOK    bool
	enterCalls int
	lastCode   string
	lookups    int
	checkboxes []bool
}

func (f *fakePosting) OpenPaycodeLookup() error {
	f.lookups++
	return nil
}

func (f *fakePosting) EnterPaycode(paycode string) bool {
	f.enterCalls++
	f.lastCode = paycode
	return f.enterOK
}

func (f *fakePosting) SetLineItemCheckbox(lineItemPost bool) error {
	f.checkboxes = append(f.checkboxes, lineItemPost)
	return nil
}

type fakePaycodes struct {
	code     string
	err      error
	resolves int
}

func (f *fakePaycodes) Resolve() (string, error) {
	f.resolves++
	return f.code, f.err
}

type fakeLineItems struct {
	start      int
	max        int
	rows       []int
	finalizeOK bool
	finalized  bool
}

func (f *fakeLineItems) RowsToProcess() (int, int, error) { return f.start, f.max, nil }

func (f *fakeLineItems) PopulateRow(n int, rec *rejection.Rejection) error {
	f.rows = append(f.rows, n)
	return nil
}

func (f *fakeLineItems) FinalizePosting() (bool, error) {
	f.finalized = true
	return f.finalizeOK, nil
}

type fakeRejections struct {
	carrier string
	posted  bool
	closed  bool
}

func (f *fakeRejections) EnterCarrier(carrier string) error {
	f.carrier = carrier
	return nil
}

func (f *fakeRejections) PostRejectionCodes(rec *rejection.Rejection) error {
	f.posted = true
	return nil
}

func (f *fakeRejections) Close() error {
	f.closed = true
	return nil
}

type fakeBulk struct {
	entered bool
	okPost  bool
}

func (f *fakeBulk) Enter() error {
	f.entered = true
	return nil
}

func (f *fakeBulk) PostRejections(rec *rejection.Rejection) (bool, error) {
	return f.okPost, nil
}

type fakeBatch struct {
	number string
	opens  int
	err    error
}

func (f *fakeBatch) Open() (string, error) {
	f.opens++
	return f.number, f.err
}

// fakeModals replays a scripted sequence of modal signals, then silence.
type fakeModals struct {
	sigs []idx.ModalSignal
}

func (f *fakeModals) Check() idx.ModalSignal {
	if len(f.sigs) == 0 {
		return idx.ModalSignal{Kind: idx.KindNone}
	}
	sig := f.sigs[0]
	f.sigs = f.sigs[1:]
	return sig
}

type fakeShots struct {
	captures []string
}

func (f *fakeShots) CaptureError(context string) string {
	f.captures = append(f.captures, context)
	return context + ".png"
}

type fakeInput struct {
	files    []string
	loads    []string
	archived []string
}

func (f *fakeInput) Discover(now time.Time) ([]string, error) { return f.files, nil }

func (f *fakeInput) Load(ctx context.Context, path string) error {
	f.loads = append(f.loads, path)
	return nil
}

func (f *fakeInput) Archive(path string) error {
	f.archived = append(f.archived, path)
	return nil
}

type fakeLogin struct {
	navs   int
	logins int
}

func (f *fakeLogin) Navigate() error { return nil }

func (f *fakeLogin) Login(username, password string) error {
	f.logins++
	return nil
}

type fakeSwitcher struct {
	ensured []int
	logouts int
}

func (f *fakeSwitcher) EnsureGroup(target int) error {
	f.ensured = append(f.ensured, target)
	return nil
}

func (f *fakeSwitcher) Logout() error {
	f.logouts++
	return nil
}

type fakeNav struct {
	active   bool
	selected []string
}

func (f *fakeNav) IsActive(option string) bool { return f.active }

func (f *fakeNav) Select(option string) error {
	f.selected = append(f.selected, option)
	return nil
}

type fakeGroupReader struct {
	group int
	err   error
}

func (f *fakeGroupReader) CurrentGroup() (int, error) { return f.group, f.err }

// fakeRecordProcessor replays scripted per-record outcomes.
type fakeRecordProcessor struct {
	results []bool
	errAt   int // 1-based call index that returns a fatal error, 0 for never
	calls   int
	batches []string
}

func (f *fakeRecordProcessor) Process(ctx context.Context, rec *rejection.Rejection, batchNumber string) (bool, error) {
	f.calls++
	f.batches = append(f.batches, batchNumber)
	if f.errAt != 0 && f.calls == f.errAt {
		return false, fmt.Errorf("session wedged")
	}
	return f.results[f.calls-1], nil
}

type fakeNotifier struct {
	sent []string
}

func (f *fakeNotifier) Send(title, body string) error {
	f.sent = append(f.sent, body)
	return nil
}
