package version

// Version is overridden at build time with -ldflags "-X comptree/internal/shared/version.Version=...".
var Version = "dev"
