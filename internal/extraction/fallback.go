package extraction

import (
	"fmt"
	"math/rand"
	"strings"
)

// Fallback produces plausible extraction results locally when the external
// service is unavailable. Retried Clipers always use the fallback so a retry
// cannot fail on the same outage twice.
type Fallback struct {
	rng *rand.Rand
}

func NewFallback(seed int64) *Fallback {
	return &Fallback{rng: rand.New(rand.NewSource(seed))}
}

var (
	fallbackTranscriptions = []string{
		"Hello, my name is Alex and I am a software developer with experience in backend systems. I have worked with databases and REST services and I am looking for new challenges.",
		"Hi, I am a recent computer science graduate passionate about web development. During my studies I built several full stack projects and completed an internship at a local startup.",
		"Good afternoon, I am a professional with five years of experience in software engineering. I specialize in distributed systems and have led small development teams.",
	}

	fallbackNames = []string{
		"Alex Morales",
		"Jordan Reyes",
		"Sam Gutierrez",
	}

	fallbackProfessions = []string{
		"Software Developer",
		"Backend Developer",
		"Full Stack Developer",
	}

	fallbackEducation = []string{
		"Bachelor's Degree in Computer Science",
		"Systems Engineering Degree",
		"Software Development Technical Degree",
	}

	fallbackExperience = []string{
		"Software Developer at a technology company",
		"Junior Backend Developer, two years of experience",
		"Full Stack Developer on web platforms",
	}

	fallbackTechnologies = []string{
		"Java, Spring Boot, PostgreSQL",
		"JavaScript, React, Node.js",
		"Python, Django, MySQL",
		"Go, Docker, Kubernetes",
	}

	fallbackSoftSkills = []string{
		"Teamwork, Communication",
		"Leadership, Problem solving",
		"Adaptability, Time management",
	}

	fallbackLanguages = []string{
		"Spanish, English",
		"Spanish",
		"English, Portuguese",
	}

	fallbackAchievements = []string{
		"Delivered a customer portal used by thousands of users",
		"Improved service response times through query optimization",
		Unspecified,
	}
)

func (f *Fallback) pick(pool []string) string {
	return pool[f.rng.Intn(len(pool))]
}

// Generate builds a simulated extraction result for the media reference.
func (f *Fallback) Generate(mediaRef string) *Result {
	transcription := f.pick(fallbackTranscriptions)

	// Keep a hint of the source in the transcription so results differ per
	// Cliper even with a shared pool.
	if mediaRef != "" {
		transcription = fmt.Sprintf("%s (video: %s)", transcription, lastSegment(mediaRef))
	}

	return &Result{
		Transcription: transcription,
		Profile: Profile{
			Name:         f.pick(fallbackNames),
			Profession:   f.pick(fallbackProfessions),
			Experience:   f.pick(fallbackExperience),
			Education:    f.pick(fallbackEducation),
			Technologies: f.pick(fallbackTechnologies),
			Languages:    f.pick(fallbackLanguages),
			Achievements: f.pick(fallbackAchievements),
			SoftSkills:   f.pick(fallbackSoftSkills),
		},
	}
}

func lastSegment(ref string) string {
	idx := strings.LastIndex(ref, "/")
	if idx < 0 {
		return ref
	}
	return ref[idx+1:]
}
