package host

import "os"

// Colab sets these for every notebook runtime; either one is enough to
// conclude the capture happened on a Colab host.
var colabMarkers = []string{"COLAB_RELEASE_TAG", "COLAB_JUPYTER_IP"}

func IsColab() bool {
	for _, key := range colabMarkers {
		if os.Getenv(key) != "" {
			return true
		}
	}
	return false
}
