//go:build darwin && cgo

package platform

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa -framework CoreGraphics -framework ApplicationServices

#import <Cocoa/Cocoa.h>
#import <CoreGraphics/CoreGraphics.h>
#import <ApplicationServices/ApplicationServices.h>

typedef struct {
	uint32_t windowID;
	int32_t  pid;
	char     app[256];
	char     title[256];
	int32_t  x;
	int32_t  y;
	int32_t  width;
	int32_t  height;
} PMWindowInfo;

static bool pmTrusted(void) {
	return AXIsProcessTrusted();
}

static void pmMainDisplayBounds(int32_t *x, int32_t *y, int32_t *w, int32_t *h) {
	CGRect b = CGDisplayBounds(CGMainDisplayID());
	*x = (int32_t)b.origin.x;
	*y = (int32_t)b.origin.y;
	*w = (int32_t)b.size.width;
	*h = (int32_t)b.size.height;
}

// pmVisibleRegion returns the main screen's visibleFrame (excludes menu bar
// and dock) converted from AppKit's bottom-left origin to top-left.
static int pmVisibleRegion(int32_t *x, int32_t *y, int32_t *w, int32_t *h) {
	NSScreen *screen = [NSScreen mainScreen];
	if (screen == nil) {
		pmMainDisplayBounds(x, y, w, h);
		return 1;
	}
	NSRect visible = [screen visibleFrame];
	NSRect full = [screen frame];
	CGFloat topY = full.size.height - (visible.origin.y + visible.size.height);
	*x = (int32_t)visible.origin.x;
	*y = (int32_t)topY;
	*w = (int32_t)visible.size.width;
	*h = (int32_t)visible.size.height;
	return 0;
}

static void pmCopyCString(CFStringRef str, char *buf, int buflen) {
	buf[0] = '\0';
	if (str != NULL) {
		CFStringGetCString(str, buf, buflen, kCFStringEncodingUTF8);
	}
}

// pmCopyWindowList returns layer-0 on-screen windows in front-to-back order.
// The caller owns the returned buffer.
static PMWindowInfo *pmCopyWindowList(int *count) {
	*count = 0;
	CFArrayRef list = CGWindowListCopyWindowInfo(
		kCGWindowListOptionOnScreenOnly | kCGWindowListExcludeDesktopElements,
		kCGNullWindowID);
	if (list == NULL) {
		return NULL;
	}

	CFIndex n = CFArrayGetCount(list);
	if (n == 0) {
		CFRelease(list);
		return NULL;
	}

	PMWindowInfo *out = (PMWindowInfo *)malloc(sizeof(PMWindowInfo) * n);
	int valid = 0;
	for (CFIndex i = 0; i < n; i++) {
		CFDictionaryRef win = (CFDictionaryRef)CFArrayGetValueAtIndex(list, i);

		CFNumberRef layerRef = (CFNumberRef)CFDictionaryGetValue(win, kCGWindowLayer);
		int32_t layer = -1;
		if (layerRef) {
			CFNumberGetValue(layerRef, kCFNumberSInt32Type, &layer);
		}
		// Layer 0 is the normal window level; everything else is chrome
		// (menu bar, dock, overlays).
		if (layer != 0) {
			continue;
		}

		PMWindowInfo *info = &out[valid];
		info->windowID = 0;
		info->pid = 0;

		CFNumberRef idRef = (CFNumberRef)CFDictionaryGetValue(win, kCGWindowNumber);
		if (idRef) {
			CFNumberGetValue(idRef, kCFNumberSInt32Type, &info->windowID);
		}
		CFNumberRef pidRef = (CFNumberRef)CFDictionaryGetValue(win, kCGWindowOwnerPID);
		if (pidRef) {
			CFNumberGetValue(pidRef, kCFNumberSInt32Type, &info->pid);
		}
		pmCopyCString((CFStringRef)CFDictionaryGetValue(win, kCGWindowOwnerName), info->app, 256);
		pmCopyCString((CFStringRef)CFDictionaryGetValue(win, kCGWindowName), info->title, 256);

		CGRect bounds = CGRectZero;
		CFDictionaryRef boundsRef = (CFDictionaryRef)CFDictionaryGetValue(win, kCGWindowBounds);
		if (boundsRef) {
			CGRectMakeWithDictionaryRepresentation(boundsRef, &bounds);
		}
		info->x = (int32_t)bounds.origin.x;
		info->y = (int32_t)bounds.origin.y;
		info->width = (int32_t)bounds.size.width;
		info->height = (int32_t)bounds.size.height;

		valid++;
	}
	CFRelease(list);

	*count = valid;
	return out;
}

static int pmAXWindowCount(int32_t pid) {
	AXUIElementRef app = AXUIElementCreateApplication(pid);
	CFArrayRef windows = NULL;
	AXError err = AXUIElementCopyAttributeValue(app, kAXWindowsAttribute, (CFTypeRef *)&windows);
	CFRelease(app);
	if (err != kAXErrorSuccess || windows == NULL) {
		return -(int)err;
	}
	int n = (int)CFArrayGetCount(windows);
	CFRelease(windows);
	return n;
}

static int pmAXWindowTitle(int32_t pid, int index, char *buf, int buflen) {
	buf[0] = '\0';
	AXUIElementRef app = AXUIElementCreateApplication(pid);
	CFArrayRef windows = NULL;
	AXError err = AXUIElementCopyAttributeValue(app, kAXWindowsAttribute, (CFTypeRef *)&windows);
	if (err != kAXErrorSuccess || windows == NULL) {
		CFRelease(app);
		return -(int)err;
	}
	if (index < 0 || index >= CFArrayGetCount(windows)) {
		CFRelease(windows);
		CFRelease(app);
		return -1;
	}
	AXUIElementRef win = (AXUIElementRef)CFArrayGetValueAtIndex(windows, index);
	CFStringRef title = NULL;
	err = AXUIElementCopyAttributeValue(win, kAXTitleAttribute, (CFTypeRef *)&title);
	if (err == kAXErrorSuccess && title != NULL) {
		pmCopyCString(title, buf, buflen);
		CFRelease(title);
	}
	CFRelease(windows);
	CFRelease(app);
	return 0;
}

static int pmAXSetWindowFrame(int32_t pid, int index, int32_t x, int32_t y, int32_t w, int32_t h) {
	AXUIElementRef app = AXUIElementCreateApplication(pid);
	CFArrayRef windows = NULL;
	AXError err = AXUIElementCopyAttributeValue(app, kAXWindowsAttribute, (CFTypeRef *)&windows);
	if (err != kAXErrorSuccess || windows == NULL) {
		CFRelease(app);
		return (int)err;
	}
	if (index < 0 || index >= CFArrayGetCount(windows)) {
		CFRelease(windows);
		CFRelease(app);
		return (int)kAXErrorInvalidUIElement;
	}
	AXUIElementRef win = (AXUIElementRef)CFArrayGetValueAtIndex(windows, index);

	CGPoint pos = CGPointMake((CGFloat)x, (CGFloat)y);
	AXValueRef posVal = AXValueCreate(kAXValueTypeCGPoint, &pos);
	err = AXUIElementSetAttributeValue(win, kAXPositionAttribute, posVal);
	CFRelease(posVal);
	if (err == kAXErrorSuccess) {
		CGSize size = CGSizeMake((CGFloat)w, (CGFloat)h);
		AXValueRef sizeVal = AXValueCreate(kAXValueTypeCGSize, &size);
		err = AXUIElementSetAttributeValue(win, kAXSizeAttribute, sizeVal);
		CFRelease(sizeVal);
	}

	CFRelease(windows);
	CFRelease(app);
	return (int)err;
}
*/
import "C"

import (
	"fmt"
	"os/exec"
	"strings"
	"unsafe"
)

// Windows smaller than this are system elements, not user windows.
const minWindowDimension = 100

type darwinBackend struct {
	skipApps map[string]struct{}
}

// New returns the macOS backend. skipApps names applications whose windows
// are never tiled.
func New(skipApps map[string]struct{}) Backend {
	return &darwinBackend{skipApps: skipApps}
}

func (b *darwinBackend) Trusted() bool {
	return bool(C.pmTrusted())
}

func (b *darwinBackend) VisibleRegion() (Rect, error) {
	var x, y, w, h C.int32_t
	C.pmVisibleRegion(&x, &y, &w, &h)
	r := Rect{X: int(x), Y: int(y), Width: int(w), Height: int(h)}
	if r.Width <= 0 || r.Height <= 0 {
		return Rect{}, fmt.Errorf("main display reported empty visible region %dx%d", r.Width, r.Height)
	}
	return r, nil
}

func (b *darwinBackend) ListWindows() ([]Window, error) {
	if !b.Trusted() {
		return nil, ErrNotTrusted
	}

	var count C.int
	raw := C.pmCopyWindowList(&count)
	if raw == nil || count == 0 {
		if raw != nil {
			C.free(unsafe.Pointer(raw))
		}
		return nil, nil
	}
	defer C.free(unsafe.Pointer(raw))

	var dx, dy, dw, dh C.int32_t
	C.pmMainDisplayBounds(&dx, &dy, &dw, &dh)
	displayMinX, displayMaxX := int(dx), int(dx)+int(dw)

	infos := unsafe.Slice(raw, int(count))
	var windows []Window
	for i := range infos {
		info := &infos[i]
		win := Window{
			ID:    uint32(info.windowID),
			PID:   int(info.pid),
			App:   C.GoString(&info.app[0]),
			Title: C.GoString(&info.title[0]),
			Bounds: Rect{
				X:      int(info.x),
				Y:      int(info.y),
				Width:  int(info.width),
				Height: int(info.height),
			},
		}

		if _, skip := b.skipApps[win.App]; skip {
			continue
		}
		if win.Bounds.Width < minWindowDimension || win.Bounds.Height < minWindowDimension {
			continue
		}
		centerX := win.Bounds.X + win.Bounds.Width/2
		if centerX < displayMinX || centerX >= displayMaxX {
			continue
		}

		windows = append(windows, win)
	}
	return windows, nil
}

// MoveResize resolves the CG window to an AX element by title, falling back
// to the only window when the app has exactly one. CG window numbers have no
// public bridge to AX elements, so this matching is inherently best-effort.
func (b *darwinBackend) MoveResize(win Window, bounds Rect) error {
	if !b.Trusted() {
		return ErrNotTrusted
	}

	count := int(C.pmAXWindowCount(C.int32_t(win.PID)))
	if count <= 0 {
		return fmt.Errorf("%w: %s (pid %d)", ErrWindowGone, win.App, win.PID)
	}

	index := -1
	if win.Title != "" {
		var buf [256]C.char
		for i := 0; i < count; i++ {
			if C.pmAXWindowTitle(C.int32_t(win.PID), C.int(i), &buf[0], 256) != 0 {
				continue
			}
			if C.GoString(&buf[0]) == win.Title {
				index = i
				break
			}
		}
	}
	if index == -1 {
		if count != 1 {
			return fmt.Errorf("%w: %s window %q not found among %d windows",
				ErrWindowGone, win.App, win.Title, count)
		}
		index = 0
	}

	rc := C.pmAXSetWindowFrame(C.int32_t(win.PID), C.int(index),
		C.int32_t(bounds.X), C.int32_t(bounds.Y),
		C.int32_t(bounds.Width), C.int32_t(bounds.Height))
	if rc != 0 {
		return fmt.Errorf("failed to set frame for %s window %q: AXError %d", win.App, win.Title, int(rc))
	}
	return nil
}

func (b *darwinBackend) SetMenuBarAutoHide(enabled bool) error {
	value := "false"
	if enabled {
		value = "true"
	}
	script := fmt.Sprintf(`tell application "System Events" to tell dock preferences to set autohide menu bar to %s`, value)
	out, err := exec.Command("osascript", "-e", script).CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if strings.Contains(msg, "not allowed assistive access") {
			return ErrNotTrusted
		}
		if msg != "" {
			return fmt.Errorf("osascript failed: %s: %w", msg, err)
		}
		return fmt.Errorf("osascript failed: %w", err)
	}
	return nil
}
