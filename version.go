package honeybee

const (
	PkgName    = "ct-honeybee"
	PkgVersion = "v0.1.0"
)
