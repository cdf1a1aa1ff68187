package bundle

import (
	"encoding/xml"
	"strings"
	"testing"
)

const testManifest = `<manifest xmlns:android="http://schemas.android.com/apk/res/android"
    xmlns:dist="http://schemas.android.com/apk/distribution"
    package="com.example.app">
  <dist:module>
    <dist:delivery>
      <dist:on-demand/>
    </dist:delivery>
  </dist:module>
  <uses-sdk android:minSdkVersion="21" android:maxSdkVersion="33"/>
  <application android:hasCode="false"/>
</manifest>`

func TestUnmarshalManifest(t *testing.T) {
	manifest := &Manifest{}
	if err := xml.NewDecoder(strings.NewReader(testManifest)).Decode(manifest); err != nil {
		t.Fatal(err)
	}

	if v := manifest.MinSDKVersion(); v != 21 {
		t.Errorf("expected min sdk 21, got %d", v)
	}

	if v := manifest.MaxSDKVersion(); v != 33 {
		t.Errorf("expected max sdk 33, got %d", v)
	}

	if manifest.HasCode() {
		t.Error("expected hasCode=false")
	}

	if d := manifest.Delivery(); d != DeliveryOnDemand {
		t.Errorf("expected on-demand delivery, got %s", d)
	}

	if manifest.RequiresSDKRuntime() {
		t.Error("expected no sdk runtime requirement")
	}
}

func TestManifestDefaults(t *testing.T) {
	manifest := &Manifest{}
	if err := xml.NewDecoder(strings.NewReader(`<manifest package="com.example.app"/>`)).Decode(manifest); err != nil {
		t.Fatal(err)
	}

	if v := manifest.MinSDKVersion(); v != 1 {
		t.Errorf("expected min sdk to default to 1, got %d", v)
	}

	if v := manifest.MaxSDKVersion(); v != 0 {
		t.Errorf("expected max sdk to default to unbounded, got %d", v)
	}

	if !manifest.HasCode() {
		t.Error("expected hasCode to default to true")
	}

	if d := manifest.Delivery(); d != DeliveryAlwaysInstalled {
		t.Errorf("expected always-installed delivery, got %s", d)
	}
}
