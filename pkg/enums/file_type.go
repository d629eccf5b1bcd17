package enums

import "fmt"

// FileType names a downloadable artifact of a finished project.
type FileType string

const (
	FileTypeFinalVideo     FileType = "final_video"
	FileTypeVideoWithAudio FileType = "video_with_audio"
	FileTypeAudio          FileType = "audio"
	FileTypeScript         FileType = "script"
)

var validFileTypes = []FileType{
	FileTypeFinalVideo,
	FileTypeVideoWithAudio,
	FileTypeAudio,
	FileTypeScript,
}

// String returns the literal string for the file type.
func (f FileType) String() string {
	return string(f)
}

// IsValid reports whether the file type is known.
func (f FileType) IsValid() bool {
	for _, candidate := range validFileTypes {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFileType converts raw input into a FileType.
func ParseFileType(value string) (FileType, error) {
	for _, candidate := range validFileTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid file type %q", value)
}
