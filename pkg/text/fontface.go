package text

import (
	"minibrowser/pkg/css"
	"minibrowser/pkg/logger"
)

// FetchFunc loads the bytes behind a src url of an @font-face rule.
type FetchFunc func(src string) ([]byte, error)

// ScanForFontFaceRules installs the fonts declared by @font-face rules.
// Sources are tried in order and the first one that loads and parses wins.
// Failures are logged and do not stop the scan.
func (fc *FontCache) ScanForFontFaceRules(sheet *css.Stylesheet, fetch FetchFunc) int {
	installed := 0
	for _, face := range sheet.FontFaces {
		ok := false
		for _, src := range face.Src {
			data, err := fetch(src)
			if err != nil {
				logger.WarningLogger.Printf("font-face %q: loading %s: %v", face.Family, src, err)
				continue
			}
			if err := fc.InstallFontBytes(data, face.Family, face.Weight, face.Style); err != nil {
				logger.WarningLogger.Printf("font-face %q: %v", face.Family, err)
				continue
			}
			ok = true
			break
		}
		if ok {
			installed++
			logger.ProgressLogger.Printf("installed font-face %q weight %d style %s", face.Family, face.Weight, face.Style)
		}
	}
	return installed
}
