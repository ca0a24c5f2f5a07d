package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/esmd-dev/esmd/internal/adapters/graph"
	"github.com/esmd-dev/esmd/internal/adapters/optimizer"
	"github.com/esmd-dev/esmd/internal/adapters/telemetry"
	"github.com/esmd-dev/esmd/internal/core/domain"
	"github.com/esmd-dev/esmd/internal/core/ports"
	"github.com/esmd-dev/esmd/internal/core/ports/mocks"
	"github.com/esmd-dev/esmd/internal/engine/pipeline"
)

type testEnv struct {
	cfg     *domain.Config
	graph   *graph.Graph
	plugins *mocks.MockPluginContainer
	pipe    *pipeline.Pipeline
}

func newTestEnv(t *testing.T, ctrl *gomock.Controller) *testEnv {
	t.Helper()

	root := t.TempDir()
	cfg := &domain.Config{Root: root, PublicDir: filepath.Join(root, "public")}

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any(), gomock.Any()).AnyTimes()

	g := graph.New()
	plugins := mocks.NewMockPluginContainer(ctrl)
	coordinator := optimizer.New(cfg, log)

	return &testEnv{
		cfg:     cfg,
		graph:   g,
		plugins: plugins,
		pipe:    pipeline.New(cfg, g, plugins, coordinator, nil, log, telemetry.NewNoOp()),
	}
}

func (e *testEnv) writeFile(t *testing.T, rel, content string) string {
	t.Helper()
	path := filepath.Join(e.cfg.Root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPipeline_ServesFileFromDisk(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newTestEnv(t, ctrl)
	code := "export const answer = 42\n"
	file := env.writeFile(t, "src/main.js", code)

	env.plugins.EXPECT().
		ResolveID(gomock.Any(), "/src/main.js", "", gomock.Any()).
		Return(&ports.ResolvedID{ID: file}, nil)
	env.plugins.EXPECT().Load(gomock.Any(), file, gomock.Any()).Return(nil, nil)
	env.plugins.EXPECT().Transform(gomock.Any(), code, file, gomock.Any()).Return(nil, nil)

	result, err := env.pipe.TransformRequest(context.Background(), "/src/main.js", domain.ModeDefault)
	require.NoError(t, err)
	require.Equal(t, code, result.Code)
	require.Equal(t, domain.Fingerprint(code), result.Etag)

	module := env.graph.ModuleByURL("/src/main.js", false)
	require.NotNil(t, module)
	require.Equal(t, file, module.BackingFile())
	require.Same(t, result, module.Result(false))
}

func TestPipeline_CacheHitSkipsHooks(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newTestEnv(t, ctrl)
	file := env.writeFile(t, "src/main.js", "export default 1\n")

	env.plugins.EXPECT().
		ResolveID(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&ports.ResolvedID{ID: file}, nil).
		Times(1)
	env.plugins.EXPECT().Load(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).Times(1)
	env.plugins.EXPECT().Transform(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).Times(1)

	first, err := env.pipe.TransformRequest(context.Background(), "/src/main.js", domain.ModeDefault)
	require.NoError(t, err)

	// Identical request, plus a cache-busted variant; both hit the cache.
	second, err := env.pipe.TransformRequest(context.Background(), "/src/main.js", domain.ModeDefault)
	require.NoError(t, err)
	require.Same(t, first, second)

	third, err := env.pipe.TransformRequest(context.Background(), "/src/main.js?t=99", domain.ModeDefault)
	require.NoError(t, err)
	require.Same(t, first, third)
}

func TestPipeline_ConcurrentRequestsCollapse(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		env := newTestEnv(t, ctrl)
		file := env.writeFile(t, "src/slow.js", "export const slow = true\n")

		release := make(chan struct{})
		env.plugins.EXPECT().
			ResolveID(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(context.Context, string, string, ports.ResolveOptions) (*ports.ResolvedID, error) {
				<-release
				return &ports.ResolvedID{ID: file}, nil
			}).
			Times(1)
		env.plugins.EXPECT().Load(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).Times(1)
		env.plugins.EXPECT().Transform(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).Times(1)

		results := make(chan *domain.TransformResult, 3)
		for range 3 {
			go func() {
				result, err := env.pipe.TransformRequest(context.Background(), "/src/slow.js", domain.ModeDefault)
				require.NoError(t, err)
				results <- result
			}()
		}

		// All three are in flight: one inside the resolve hook, two parked on
		// the pending request.
		synctest.Wait()
		close(release)

		first := <-results
		require.Same(t, first, <-results)
		require.Same(t, first, <-results)
	})
}

func TestPipeline_InvalidationSupersedesPendingRequest(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		env := newTestEnv(t, ctrl)
		file := env.writeFile(t, "src/hot.js", "export const v = 1\n")

		var transforms atomic.Int64
		entered := make(chan struct{}, 2)
		release := make(chan struct{})

		env.plugins.EXPECT().
			ResolveID(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&ports.ResolvedID{ID: file}, nil).
			Times(2)
		env.plugins.EXPECT().Load(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)
		env.plugins.EXPECT().
			Transform(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(context.Context, string, string, ports.TransformOptions) (*domain.HookTransformResult, error) {
				transforms.Add(1)
				entered <- struct{}{}
				<-release
				return nil, nil
			}).
			Times(2)

		done := make(chan struct{}, 2)
		go func() {
			_, err := env.pipe.TransformRequest(context.Background(), "/src/hot.js", domain.ModeDefault)
			require.NoError(t, err)
			done <- struct{}{}
		}()

		// Wait until the first computation sits inside the transform hook;
		// by then the module is bound to its file.
		<-entered
		env.graph.InvalidateFile(file)

		// The second request sees a pending computation that predates the
		// invalidation and must re-issue instead of reusing it.
		go func() {
			_, err := env.pipe.TransformRequest(context.Background(), "/src/hot.js", domain.ModeDefault)
			require.NoError(t, err)
			done <- struct{}{}
		}()

		<-entered
		close(release)
		<-done
		<-done

		require.Equal(t, int64(2), transforms.Load())

		// The first computation's result was discarded by the cache-write
		// guard; the cached result is the post-invalidation one.
		module := env.graph.ModuleByURL("/src/hot.js", false)
		require.NotNil(t, module)
		require.NotNil(t, module.Result(false))
	})
}

func TestPipeline_StaleResultNotCached(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		env := newTestEnv(t, ctrl)
		file := env.writeFile(t, "src/racy.js", "export const v = 1\n")

		entered := make(chan struct{})
		release := make(chan struct{})

		env.plugins.EXPECT().
			ResolveID(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&ports.ResolvedID{ID: file}, nil)
		env.plugins.EXPECT().Load(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		env.plugins.EXPECT().
			Transform(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(context.Context, string, string, ports.TransformOptions) (*domain.HookTransformResult, error) {
				close(entered)
				<-release
				return nil, nil
			})

		done := make(chan struct{})
		go func() {
			result, err := env.pipe.TransformRequest(context.Background(), "/src/racy.js", domain.ModeDefault)
			require.NoError(t, err)
			require.NotNil(t, result)
			close(done)
		}()

		<-entered
		env.graph.InvalidateFile(file)
		close(release)
		<-done

		// The request still got its answer, but the module cache stayed
		// empty so the next request recomputes.
		module := env.graph.ModuleByURL("/src/racy.js", false)
		require.NotNil(t, module)
		require.Nil(t, module.Result(false))
	})
}

func TestPipeline_LoadNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newTestEnv(t, ctrl)
	missing := filepath.Join(env.cfg.Root, "src", "ghost.js")

	env.plugins.EXPECT().
		ResolveID(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&ports.ResolvedID{ID: missing}, nil)
	env.plugins.EXPECT().Load(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

	_, err := env.pipe.TransformRequest(context.Background(), "/src/ghost.js", domain.ModeDefault)
	require.Error(t, err)
	require.True(t, errors.Is(err, domain.ErrLoadNotFound))
	require.Equal(t, domain.CodeLoadNotFound, domain.ErrorCode(err))
}

func TestPipeline_PublicAssetImportRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newTestEnv(t, ctrl)
	require.NoError(t, os.MkdirAll(env.cfg.PublicDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(env.cfg.PublicDir, "icon.svg"), []byte("<svg/>"), 0o644))

	env.plugins.EXPECT().
		ResolveID(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil)
	env.plugins.EXPECT().Load(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

	_, err := env.pipe.TransformRequest(context.Background(), "/icon.svg", domain.ModeDefault)
	require.Error(t, err)
	require.Equal(t, domain.CodeLoadPublicURL, domain.ErrorCode(err))
}

func TestPipeline_OutsideRootDenied(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newTestEnv(t, ctrl)

	outside := t.TempDir()
	secret := filepath.Join(outside, "secret.js")
	require.NoError(t, os.WriteFile(secret, []byte("export const s = 1\n"), 0o644))

	env.plugins.EXPECT().
		ResolveID(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&ports.ResolvedID{ID: secret}, nil)
	env.plugins.EXPECT().Load(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

	_, err := env.pipe.TransformRequest(context.Background(), "/@fs/"+secret, domain.ModeDefault)
	require.Error(t, err)
	require.Equal(t, domain.CodeLoadNotFound, domain.ErrorCode(err))
}

func TestPipeline_FSAllowPermitsOutsideRoot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newTestEnv(t, ctrl)

	outside := t.TempDir()
	shared := filepath.Join(outside, "shared.js")
	code := "export const shared = true\n"
	require.NoError(t, os.WriteFile(shared, []byte(code), 0o644))
	env.cfg.FSAllow = []string{outside}

	env.plugins.EXPECT().
		ResolveID(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&ports.ResolvedID{ID: shared}, nil)
	env.plugins.EXPECT().Load(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	env.plugins.EXPECT().Transform(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

	result, err := env.pipe.TransformRequest(context.Background(), "/@fs/"+shared, domain.ModeDefault)
	require.NoError(t, err)
	require.Equal(t, code, result.Code)
}

func TestPipeline_HTMLFallbackDeclinesNonMarkup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newTestEnv(t, ctrl)
	missing := filepath.Join(env.cfg.Root, "about")

	env.plugins.EXPECT().
		ResolveID(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&ports.ResolvedID{ID: missing}, nil)
	env.plugins.EXPECT().Load(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

	result, err := env.pipe.TransformRequest(context.Background(), "/about", domain.ModeHTMLFallback)
	require.NoError(t, err)
	require.Nil(t, result)
}

func TestPipeline_TransformHookRewritesCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newTestEnv(t, ctrl)
	file := env.writeFile(t, "src/app.ts", "const x: number = 1\n")

	env.plugins.EXPECT().
		ResolveID(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&ports.ResolvedID{ID: file}, nil)
	env.plugins.EXPECT().Load(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	env.plugins.EXPECT().
		Transform(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&domain.HookTransformResult{Code: "const x = 1\n"}, nil)

	result, err := env.pipe.TransformRequest(context.Background(), "/src/app.ts", domain.ModeDefault)
	require.NoError(t, err)
	require.Equal(t, "const x = 1\n", result.Code)
	require.Equal(t, domain.Fingerprint("const x = 1\n"), result.Etag)
}

func TestPipeline_SSRModeRecordsDeps(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newTestEnv(t, ctrl)
	code := "import { a } from './dep.js'\nimport './side.js'\nconst p = import('./lazy.js')\n"
	file := env.writeFile(t, "src/entry.js", code)

	env.plugins.EXPECT().
		ResolveID(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&ports.ResolvedID{ID: file}, nil)
	env.plugins.EXPECT().Load(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	env.plugins.EXPECT().Transform(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

	result, err := env.pipe.TransformRequest(context.Background(), "/src/entry.js", domain.ModeSSR)
	require.NoError(t, err)
	require.Equal(t, []string{"./dep.js", "./side.js"}, result.Deps)
	require.Equal(t, []string{"./lazy.js"}, result.DynamicDeps)

	// The server-side slot is cached independently of the browser slot.
	module := env.graph.ModuleByURL("/src/entry.js", true)
	require.NotNil(t, module)
	require.Same(t, result, module.Result(true))
	require.Nil(t, module.Result(false))
}

func TestPipeline_OnLoadHookFires(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		env := newTestEnv(t, ctrl)
		file := env.writeFile(t, "src/main.js", "export {}\n")

		env.plugins.EXPECT().
			ResolveID(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&ports.ResolvedID{ID: file}, nil)
		env.plugins.EXPECT().Load(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		env.plugins.EXPECT().Transform(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

		loaded := make(chan string, 1)
		env.pipe.SetOnLoad(func(f string) { loaded <- f })

		_, err := env.pipe.TransformRequest(context.Background(), "/src/main.js", domain.ModeDefault)
		require.NoError(t, err)

		synctest.Wait()
		require.Equal(t, file, <-loaded)
	})
}

func TestPipeline_ConcurrentModesShareOneModule(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		env := newTestEnv(t, ctrl)
		code := "export const shared = true\n"
		file := env.writeFile(t, "src/shared.js", code)

		// Default and ssr requests have distinct cache keys, so both run the
		// full load path against the one shared module. Holding both inside
		// the load hook makes the binding writes happen concurrently.
		release := make(chan struct{})
		env.plugins.EXPECT().
			ResolveID(gomock.Any(), "/src/shared.js", "", gomock.Any()).
			Return(&ports.ResolvedID{ID: file}, nil).
			Times(2)
		env.plugins.EXPECT().
			Load(gomock.Any(), file, gomock.Any()).
			DoAndReturn(func(context.Context, string, ports.LoadOptions) (*domain.LoadResult, error) {
				<-release
				return nil, nil
			}).
			Times(2)
		env.plugins.EXPECT().
			Transform(gomock.Any(), code, file, gomock.Any()).
			Return(nil, nil).
			Times(2)

		done := make(chan struct{}, 2)
		for _, mode := range []domain.TransformMode{domain.ModeDefault, domain.ModeSSR} {
			go func() {
				result, err := env.pipe.TransformRequest(context.Background(), "/src/shared.js", mode)
				require.NoError(t, err)
				require.NotNil(t, result)
				done <- struct{}{}
			}()
		}

		synctest.Wait()
		close(release)
		<-done
		<-done

		module := env.graph.ModuleByURL("/src/shared.js", false)
		require.NotNil(t, module)
		require.Equal(t, file, module.ResolvedID())
		require.Equal(t, file, module.BackingFile())
		require.NotNil(t, module.Result(false))
		require.NotNil(t, module.Result(true))
	})
}
