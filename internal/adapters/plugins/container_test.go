package plugins_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/esmd-dev/esmd/internal/adapters/plugins"
	"github.com/esmd-dev/esmd/internal/core/domain"
	"github.com/esmd-dev/esmd/internal/core/ports"
	"github.com/esmd-dev/esmd/internal/core/ports/mocks"
)

func quietLogger(ctrl *gomock.Controller) *mocks.MockLogger {
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any(), gomock.Any()).AnyTimes()
	return log
}

// fakePlugin implements the hook interfaces selectively via embedded funcs.
type fakePlugin struct {
	name      string
	resolve   func(url string) *ports.ResolvedID
	load      func(id string) (*domain.LoadResult, error)
	transform func(code string) *domain.HookTransformResult
}

func (f *fakePlugin) Name() string { return f.name }

func (f *fakePlugin) ResolveID(_ context.Context, url, _ string, _ ports.ResolveOptions) (*ports.ResolvedID, error) {
	if f.resolve == nil {
		return nil, nil
	}
	return f.resolve(url), nil
}

func (f *fakePlugin) Load(_ context.Context, id string, _ ports.LoadOptions) (*domain.LoadResult, error) {
	if f.load == nil {
		return nil, nil
	}
	return f.load(id)
}

func (f *fakePlugin) Transform(_ context.Context, code, _ string, _ ports.TransformOptions) (*domain.HookTransformResult, error) {
	if f.transform == nil {
		return nil, nil
	}
	return f.transform(code), nil
}

func TestContainer_ResolveFirstResultWins(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	declines := &fakePlugin{name: "declines"}
	wins := &fakePlugin{name: "wins", resolve: func(string) *ports.ResolvedID {
		return &ports.ResolvedID{ID: "/resolved/by/first.js"}
	}}
	never := &fakePlugin{name: "never", resolve: func(string) *ports.ResolvedID {
		t.Error("later plugin must not run after a hook adopted the url")
		return nil
	}}

	c := plugins.NewContainer(quietLogger(ctrl), declines, wins, never)
	resolved, err := c.ResolveID(context.Background(), "./x.js", "/src/main.js", ports.ResolveOptions{})
	require.NoError(t, err)
	require.Equal(t, "/resolved/by/first.js", resolved.ID)
}

func TestContainer_ResolveAllDecline(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c := plugins.NewContainer(quietLogger(ctrl), &fakePlugin{name: "a"}, &fakePlugin{name: "b"})
	resolved, err := c.ResolveID(context.Background(), "./x.js", "", ports.ResolveOptions{})
	require.NoError(t, err)
	require.Nil(t, resolved)
}

func TestContainer_LoadErrorPropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	boom := errors.New("load failed")
	c := plugins.NewContainer(quietLogger(ctrl), &fakePlugin{
		name: "boom",
		load: func(string) (*domain.LoadResult, error) { return nil, boom },
	})

	_, err := c.Load(context.Background(), "/x.js", ports.LoadOptions{})
	require.ErrorIs(t, err, boom)
}

func TestContainer_TransformThreadsCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	upper := &fakePlugin{name: "one", transform: func(code string) *domain.HookTransformResult {
		return &domain.HookTransformResult{Code: code + "+one"}
	}}
	skip := &fakePlugin{name: "skips"}
	again := &fakePlugin{name: "two", transform: func(code string) *domain.HookTransformResult {
		return &domain.HookTransformResult{Code: code + "+two"}
	}}

	c := plugins.NewContainer(quietLogger(ctrl), upper, skip, again)
	result, err := c.Transform(context.Background(), "base", "/x.js", ports.TransformOptions{})
	require.NoError(t, err)
	require.Equal(t, "base+one+two", result.Code)
}

func TestContainer_TransformAllDeclineReturnsNil(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c := plugins.NewContainer(quietLogger(ctrl), &fakePlugin{name: "a"})
	result, err := c.Transform(context.Background(), "base", "/x.js", ports.TransformOptions{})
	require.NoError(t, err)
	require.Nil(t, result)
}
