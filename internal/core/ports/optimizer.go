package ports

//go:generate go run go.uber.org/mock/mockgen -source=optimizer.go -destination=mocks/mock_optimizer.go -package=mocks

// DepsOptimizer coordinates dependency pre-bundling with the transform
// pipeline.
type DepsOptimizer interface {
	// DelayUntil tells the optimizer that the optimization decision for id
	// may need to wait for an in-flight transform; done is called when that
	// transform settles. Never blocks.
	DelayUntil(id string, done func())

	// IsOptimizedDepURL reports whether the url points into the dependency
	// cache directory.
	IsOptimizedDepURL(url string) bool

	// IsOptimizedDepFile reports whether the id is a pre-bundled artifact.
	IsOptimizedDepFile(id string) bool

	// Register records dependencies discovered by the scanner.
	Register(deps map[string]string)
}
