package version

// Version is the tool version recorded in every snapshot.
const Version = "0.2.0"
