//go:build darwin

package permissions

/*
#cgo LDFLAGS: -framework AVFoundation -framework Cocoa
#import <AVFoundation/AVFoundation.h>
#import <Cocoa/Cocoa.h>

int checkMicrophonePermission() {
    AVAuthorizationStatus status = [AVCaptureDevice authorizationStatusForMediaType:AVMediaTypeAudio];
    return (int)status;
}

void requestMicrophonePermission() {
    [AVCaptureDevice requestAccessForMediaType:AVMediaTypeAudio completionHandler:^(BOOL granted) {}];
}

int checkAccessibilityPermission() {
    NSDictionary *options = @{(__bridge id)kAXTrustedCheckOptionPrompt: @YES};
    return AXIsProcessTrustedWithOptions((__bridge CFDictionaryRef)options) ? 1 : 0;
}
*/
import "C"

import (
	"fmt"

	"github.com/rs/zerolog"
)

const (
	statusNotDetermined = 0
	statusRestricted    = 1
	statusDenied        = 2
	statusAuthorized    = 3
)

// Ensure verifies the permissions the app depends on: microphone access
// for recording and accessibility access for global hotkeys. Missing
// permissions are requested so the system dialogs appear, and an error
// is returned so the caller can decide whether to continue degraded.
func Ensure(log zerolog.Logger) error {
	if status := int(C.checkMicrophonePermission()); status != statusAuthorized {
		log.Warn().Int("status", status).Msg("Microphone permission not granted; recording will fail")
		C.requestMicrophonePermission()
		return fmt.Errorf("microphone permission not granted")
	}

	if int(C.checkAccessibilityPermission()) != 1 {
		log.Warn().Msg("Accessibility permission not granted; global hotkeys will not fire")
		log.Warn().Msg("Enable under System Settings > Privacy & Security > Accessibility")
		return fmt.Errorf("accessibility permission not granted")
	}

	return nil
}
