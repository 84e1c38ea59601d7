package version

// Version is the current kv version. Override at build time with:
//
//	go build -ldflags "-X github.com/vanderheijden86/kinview/pkg/version.Version=v1.2.3"
var Version = "v0.3.0"
