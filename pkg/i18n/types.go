package i18n

// TranslationSet is a set of localised strings for a given language
type TranslationSet struct {
	ErrorOccurred                 string
	NotEnoughArgumentsError       string
	AmbiguousContainerMarkerError string
	MissingContainerMarkerError   string
	NotASysboxContainerError      string
	ContainerNotFoundError        string
	ContainerNotRunningError      string
	CannotAccessDockerSocketError string
	CannotAccessRootfsError       string
	CopyFailedError               string
	OwnershipFixupFailedError     string
	UnmappedRootfsWarning         string
	UsageBanner                   string
}
