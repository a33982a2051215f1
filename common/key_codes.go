package common

// Virtual key codes used by the carousel viewer.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyM     = 77  // M key (ASCII), cycles the face margin
	KeyO     = 79  // O key (ASCII), toggles orientation
	KeyP     = 80  // P key (ASCII), toggles the profiler
	KeySpace = 32  // Spacebar (ASCII), moves to the first item
	KeyEsc   = 256 // Escape key (GLFW)
	KeyRight = 262 // Right arrow (GLFW), next item
	KeyLeft  = 263 // Left arrow (GLFW), previous item
	KeyDown  = 264 // Down arrow (GLFW), next item in vertical orientation
	KeyUp    = 265 // Up arrow (GLFW), previous item in vertical orientation

	KeyEqual      = 61  // '=' / '+' key (ASCII), adds an item
	KeyMinus      = 45  // '-' key (ASCII), removes the last item
	KeyKPAdd      = 334 // keypad '+' (GLFW)
	KeyKPSubtract = 333 // keypad '-' (GLFW)

	Key1 = 49 // 1 key (ASCII)
	Key9 = 57 // 9 key (ASCII)
)
