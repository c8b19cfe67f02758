package model

// ArtifactKind identifies one file produced while running a case.
type ArtifactKind int

// Artifact kinds, in the order they are produced.
const (
	ArtifactSource ArtifactKind = iota
	ArtifactReferenceBuildLog
	ArtifactReferenceExecutable
	ArtifactCandidateBuildLog
	ArtifactCandidateIntermediate
	ArtifactAssembleLog
	ArtifactCandidateExecutable
	ArtifactReferenceStdout
	ArtifactReferenceStderr
	ArtifactCandidateStdout
	ArtifactCandidateStderr
)

// GeneratedArtifacts lists every kind the pipeline may create. The source is
// an input and is never part of it.
var GeneratedArtifacts = []ArtifactKind{
	ArtifactReferenceBuildLog,
	ArtifactReferenceExecutable,
	ArtifactCandidateBuildLog,
	ArtifactCandidateIntermediate,
	ArtifactAssembleLog,
	ArtifactCandidateExecutable,
	ArtifactReferenceStdout,
	ArtifactReferenceStderr,
	ArtifactCandidateStdout,
	ArtifactCandidateStderr,
}

func (k ArtifactKind) String() string {
	switch k {
	case ArtifactSource:
		return "source"
	case ArtifactReferenceBuildLog:
		return "reference build log"
	case ArtifactReferenceExecutable:
		return "reference executable"
	case ArtifactCandidateBuildLog:
		return "candidate build log"
	case ArtifactCandidateIntermediate:
		return "candidate intermediate"
	case ArtifactAssembleLog:
		return "assemble log"
	case ArtifactCandidateExecutable:
		return "candidate executable"
	case ArtifactReferenceStdout:
		return "reference stdout"
	case ArtifactReferenceStderr:
		return "reference stderr"
	case ArtifactCandidateStdout:
		return "candidate stdout"
	case ArtifactCandidateStderr:
		return "candidate stderr"
	default:
		return "unknown"
	}
}
