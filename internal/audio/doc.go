// Package audio plays the chime that accompanies a banner. It uses the
// beep library to decode WAV, OGG and MP3 files.
package audio
