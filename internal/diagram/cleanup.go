package diagram

import "os"

// Cleanup deletes rendered artifacts after their bytes have been
// embedded. Per-file failures are ignored: a missing or locked file
// must never fail a conversion that already produced its output. The
// shared image directory is removed only when empty, since other
// conversions may still be writing to it.
func Cleanup(imageFiles []string) {
	for _, path := range imageFiles {
		_ = os.Remove(path)
	}

	// Fails when non-empty, which is exactly the wanted behavior.
	_ = os.Remove(ImageDir())
}
