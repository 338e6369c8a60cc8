package version

// Version components
const (
	Maj = "1"
	Min = "0"
	Fix = "0"
)

var (
	// Version is the semantic version of the sale engine.
	Version = "1.0.0"

	// GitCommit is the current HEAD set using ldflags.
	GitCommit string
)

func init() {
	if GitCommit != "" {
		Version += "-" + GitCommit
	}
}
