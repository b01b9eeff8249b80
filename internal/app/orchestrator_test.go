package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DaniellePashayan/post-rejections-idx/internal/domain/rejection"
)

type orchestratorFixture struct {
	repo      *fakeRepo
	input     *fakeInput
	login     *fakeLogin
	settings  *fakeSwitcher
	nav       *fakeNav
	batch     *fakeBatch
	posting   *fakeGroupReader
	processor *fakeRecordProcessor
	notifier  *fakeNotifier
	orch      *Orchestrator
}

func newOrchestratorFixture(pendingCount int, results []bool) *orchestratorFixture {
	f := &orchestratorFixture{
		repo:      newFakeRepo(),
		input:     &fakeInput{files: []string{"/in/rejections_08_29_2025.csv"}},
		login:     &fakeLogin{},
		settings:  &fakeSwitcher{},
		nav:       &fakeNav{},
		batch:     &fakeBatch{number: "10583"},
		posting:   &fakeGroupReader{err: assert.AnError},
		processor: &fakeRecordProcessor{results: results},
		notifier:  &fakeNotifier{},
	}

	recs := make([]*rejection.Rejection, pendingCount)
	for i := range recs {
		recs[i] = &rejection.Rejection{
			InvoiceNumber: int64(100000000 + i),
			FileName:      "rejections_08_29_2025.csv",
			Group:         2,
		}
	}
	f.repo.pending[partitionKey("rejections_08_29_2025.csv", 2)] = recs

	f.orch = NewOrchestrator(
		f.repo, f.input, f.login, f.settings, f.nav, f.batch,
		f.posting, f.processor, f.notifier, "user", "pass",
	)
	return f
}

func TestRunNoInputFiles(t *testing.T) {
	f := newOrchestratorFixture(0, nil)
	f.input.files = nil

	err := f.orch.Run(context.Background())
	assert.Error(t, err)
	assert.Len(t, f.notifier.sent, 1, "one alert per fatal condition")
	assert.Zero(t, f.login.logins, "no session is opened without work")
}

func TestRunHappyPath(t *testing.T) {
	f := newOrchestratorFixture(2, []bool{true, true})

	require.NoError(t, f.orch.Run(context.Background()))

	assert.Equal(t, 1, f.login.logins)
	assert.Equal(t, []int{2}, f.settings.ensured)
	assert.Equal(t, 2, f.processor.calls)
	assert.Equal(t, []string{"10583", "10583"}, f.processor.batches)
	assert.Equal(t, []string{"/in/rejections_08_29_2025.csv"}, f.input.archived)
	assert.Empty(t, f.notifier.sent, "a clean run raises no alerts")
}

func TestRunSkipsGroupSwitchWhenHeaderMatches(t *testing.T) {
	f := newOrchestratorFixture(1, []bool{true})
	f.posting.group = 2
	f.posting.err = nil

	require.NoError(t, f.orch.Run(context.Background()))
	assert.Empty(t, f.settings.ensured, "no group switch when the header already shows the target")
}

func TestRunRecoversAfterThreeConsecutiveFailures(t *testing.T) {
	f := newOrchestratorFixture(5, []bool{false, false, false, false, true})

	require.NoError(t, f.orch.Run(context.Background()))

	// Recovery fires exactly once, at the third failure; the reset streak
	// of one trailing failure never reaches the threshold again.
	assert.Equal(t, 1, f.settings.logouts)
	assert.Equal(t, 2, f.login.logins, "initial login plus one recovery login")
	assert.Equal(t, 5, f.processor.calls, "all records are still processed")
}

func TestRunSuccessResetsFailureStreak(t *testing.T) {
	f := newOrchestratorFixture(5, []bool{false, false, true, false, false})

	require.NoError(t, f.orch.Run(context.Background()))

	assert.Zero(t, f.settings.logouts, "interleaved success keeps the streak below the threshold")
	assert.Equal(t, 1, f.login.logins)
}

func TestRunArchivesOnlyWhenPartitionDrained(t *testing.T) {
	f := newOrchestratorFixture(2, []bool{true, false})
	f.repo.unposted[partitionKey("rejections_08_29_2025.csv", 2)] = 1

	require.NoError(t, f.orch.Run(context.Background()))
	assert.Empty(t, f.input.archived, "unposted records keep the file in place")
}

func TestRunFatalProcessorErrorAborts(t *testing.T) {
	f := newOrchestratorFixture(4, []bool{true, true, true, true})
	f.processor.errAt = 2

	err := f.orch.Run(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 2, f.processor.calls, "remaining records are not attempted")
	assert.Len(t, f.notifier.sent, 1, "one alert per fatal condition")
	assert.Empty(t, f.input.archived)
}
