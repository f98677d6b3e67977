// Package services defines the shared error taxonomy for Gainhound's external
// collaborators and hosts the subprocess and HTTP clients that talk to them
// (ffmpeg, mp3gain, Plex).
package services
