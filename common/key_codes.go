package common

// Virtual key codes delivered by the window's key callbacks.
// They match GLFW key codes, which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeySpace = 32  // Spacebar: pause/resume rotation
	KeyM     = 77  // M: toggle sensor mirroring
	KeyP     = 80  // P: write a snapshot
	KeyR     = 82  // R: reset rotation
	KeyEsc   = 256 // Escape (handled by the window itself)
)
