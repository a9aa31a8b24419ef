package model

//
// Apps
//

// NimbusApp identifies an application as the experimentation
// platform sees it, i.e., by the `appName` and `channel` fields
// carried by each experiment recipe.
type NimbusApp struct {
	// AppName is the MANDATORY app name (e.g., "fenix").
	AppName string

	// Channel is the OPTIONAL release channel (e.g., "nightly").
	Channel string
}

// LaunchableApp is an application installed on an emulated device. The
// concrete type is either [*AndroidApp] or [*IosApp]; code switching on
// a LaunchableApp must handle both.
type LaunchableApp interface {
	// Platform returns the platform name.
	Platform() string

	isLaunchableApp()
}

const (
	// PlatformAndroid is the Android platform name.
	PlatformAndroid = "android"

	// PlatformIOS is the iOS platform name.
	PlatformIOS = "ios"
)

// AndroidApp is an app running on an Android emulator or device
// controlled through the Android debug bridge.
type AndroidApp struct {
	// PackageName is the MANDATORY package name.
	PackageName string

	// ActivityName is the MANDATORY activity to launch.
	ActivityName string

	// DeviceID is the OPTIONAL device serial. When empty, adb
	// talks to the only device connected.
	DeviceID string
}

var _ LaunchableApp = &AndroidApp{}

// Platform implements LaunchableApp.
func (*AndroidApp) Platform() string {
	return PlatformAndroid
}

func (*AndroidApp) isLaunchableApp() {}

// IosApp is an app running on an iOS simulator controlled through simctl.
type IosApp struct {
	// AppID is the MANDATORY bundle identifier.
	AppID string

	// DeviceID is the MANDATORY simulator udid or "booted".
	DeviceID string
}

var _ LaunchableApp = &IosApp{}

// Platform implements LaunchableApp.
func (*IosApp) Platform() string {
	return PlatformIOS
}

func (*IosApp) isLaunchableApp() {}
