package version

// Version is the application version, overridable at build time with
// -ldflags "-X reelscope/internal/version.Version=..."
var Version = "0.3.0"
