package bundle

import (
	"encoding/xml"
	"strconv"
)

const (
	// ManifestName is where each module keeps its manifest
	// inside a bundle.
	ManifestName = "manifest/AndroidManifest.xml"

	androidNamespace = "http://schemas.android.com/apk/res/android"
)

// Manifest is the subset of a module's AndroidManifest.xml that
// split generation consumes.
type Manifest struct {
	XMLName     xml.Name            `xml:"manifest"`
	UsesSDK     ManifestUsesSDK     `xml:"uses-sdk"`
	Application ManifestApplication `xml:"application"`
	Module      ManifestModule      `xml:"module"`
	Attrs       []xml.Attr          `xml:",any,attr"`
}

type ManifestUsesSDK struct {
	Attrs []xml.Attr `xml:",any,attr"`
}

type ManifestApplication struct {
	UsesSDKLibraries []ManifestUsesSDKLibrary `xml:"uses-sdk-library"`
	Attrs            []xml.Attr               `xml:",any,attr"`
}

type ManifestUsesSDKLibrary struct {
	Attrs []xml.Attr `xml:",any,attr"`
}

type ManifestModule struct {
	Delivery ManifestDelivery `xml:"delivery"`
	Attrs    []xml.Attr       `xml:",any,attr"`
}

type ManifestDelivery struct {
	InstallTime *struct{} `xml:"install-time"`
	OnDemand    *struct{} `xml:"on-demand"`
	Conditions  *struct{} `xml:"conditions"`
}

func androidAttr(attrs []xml.Attr, name string) string {
	for _, attr := range attrs {
		if attr.Name.Local == name && (attr.Name.Space == "" || attr.Name.Space == androidNamespace) {
			return attr.Value
		}
	}

	return ""
}

// MinSDKVersion returns the manifest's minimum SDK version, or 1.
func (m *Manifest) MinSDKVersion() int {
	if v, err := strconv.Atoi(androidAttr(m.UsesSDK.Attrs, "minSdkVersion")); err == nil {
		return v
	}

	return 1
}

// MaxSDKVersion returns the manifest's maximum SDK version, or 0
// when unbounded.
func (m *Manifest) MaxSDKVersion() int {
	if v, err := strconv.Atoi(androidAttr(m.UsesSDK.Attrs, "maxSdkVersion")); err == nil {
		return v
	}

	return 0
}

// HasCode reports whether the module declares code. The attribute
// defaults to true.
func (m *Manifest) HasCode() bool {
	return androidAttr(m.Application.Attrs, "hasCode") != "false"
}

// RequiresSDKRuntime reports whether the module depends on a
// runtime-enabled SDK.
func (m *Manifest) RequiresSDKRuntime() bool {
	return len(m.Application.UsesSDKLibraries) > 0
}

// Delivery derives the module's delivery policy, defaulting to
// always-installed.
func (m *Manifest) Delivery() DeliveryMode {
	switch {
	case m.Module.Delivery.Conditions != nil:
		return DeliveryConditional
	case m.Module.Delivery.OnDemand != nil:
		return DeliveryOnDemand
	}

	return DeliveryAlwaysInstalled
}
