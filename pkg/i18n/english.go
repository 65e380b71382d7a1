package i18n

func englishSet() TranslationSet {
	return TranslationSet{
		ErrorOccurred:                 "An error occurred! Please create an issue at https://github.com/liuwei8809/sysbox-docker-cp/issues",
		NotEnoughArgumentsError:       "expected exactly two path arguments (one of them CONTAINER:PATH)",
		AmbiguousContainerMarkerError: "copying between two containers is not supported; only one argument may be CONTAINER:PATH",
		MissingContainerMarkerError:   "neither argument names a container; one of them must be CONTAINER:PATH",
		NotASysboxContainerError:      "container is not managed by the Sysbox runtime",
		ContainerNotFoundError:        "no such container",
		ContainerNotRunningError:      "container is not running; its ID mapping cannot be read",
		CannotAccessDockerSocketError: "Cannot access docker socket. Check the docker daemon is running and that you have the right permissions",
		CannotAccessRootfsError:       "cannot read the container's rootfs; re-run with sufficient privilege (e.g. sudo)",
		CopyFailedError:               "docker cp failed",
		OwnershipFixupFailedError:     "failed to fix up file ownership on the copied files",
		UnmappedRootfsWarning:         "could not determine the container's rootfs ID mapping; copied files will show nobody:nogroup ownership",
		UsageBanner:                   "Copy files between a Sysbox container and the local filesystem, preserving meaningful ownership",
	}
}
