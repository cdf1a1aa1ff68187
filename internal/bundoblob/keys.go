package bundoblob

import (
	"fmt"
	"path"
)

func SplitAPKKey(variant, module, suffix string) string {
	return path.Join("splits", variant, fmt.Sprintf("%s-%s.apk", module, suffix))
}

func StandaloneAPKKey(suffix string) string {
	return path.Join("standalones", fmt.Sprintf("standalone-%s.apk", suffix))
}

func UniversalAPKKey() string {
	return "universal.apk"
}

func TOCKey() string {
	return "toc.yaml"
}
