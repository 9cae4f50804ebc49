package registry

import "quizmaster/internal/domain"

// businessParticipants are the pre-registered track-1 identities. Only these
// participants can take the quiz; the set never changes at runtime.
var businessParticipants = []domain.ParticipantIdentity{
	{ID: "user-01", DisplayName: "RISHNI X", AccessCode: "7A3F92B1"},
	{ID: "user-02", DisplayName: "RANJITH M", AccessCode: "D4E81C6F"},
	{ID: "user-03", DisplayName: "VARSHA SUGUMAR", AccessCode: "B9F2A50E"},
	{ID: "user-04", DisplayName: "DURGA JAI", AccessCode: "3C7D6E8A"},
	{ID: "user-05", DisplayName: "RASHA R J", AccessCode: "E5B14D72"},
	{ID: "user-06", DisplayName: "GOUTHAM K SURESH", AccessCode: "8F06C3A9"},
	{ID: "user-07", DisplayName: "JESWIN MANJILA", AccessCode: "2D9E7B54"},
	{ID: "user-08", DisplayName: "NAVANEETH OB", AccessCode: "A1C83F6D"},
	{ID: "user-09", DisplayName: "MAHIMA SHREE K", AccessCode: "6E4B29C7"},
	{ID: "user-10", DisplayName: "HARRIET MINERVA K", AccessCode: "F7D5A018"},
	{ID: "user-11", DisplayName: "HARINI M R", AccessCode: "4B8C1E93"},
	{ID: "user-12", DisplayName: "HARINI S", AccessCode: "C2A67F45"},
	{ID: "user-13", DisplayName: "PRANAV BALAJEE L", AccessCode: "91E3D8B6"},
	{ID: "user-14", DisplayName: "SANJAY S", AccessCode: "5F7A4C20"},
	{ID: "user-15", DisplayName: "JUHARIYA", AccessCode: "0D6B9E3F"},
	{ID: "user-16", DisplayName: "HARSHINI S", AccessCode: "E8C25A71"},
	{ID: "user-17", DisplayName: "DUMMY 1", AccessCode: "1A2B3C4D"},
	{ID: "user-18", DisplayName: "DUMMY 2", AccessCode: "5E6F7A8B"},
	{ID: "user-19", DisplayName: "DUMMY 3", AccessCode: "9C0D1E2F"},
	{ID: "user-20", DisplayName: "DUMMY 4", AccessCode: "3A4B5C6D"},
	{ID: "user-21", DisplayName: "DUMMY 5", AccessCode: "7E8F9A0B"},
}

// readingParticipants are the five identities provisioned for track 2.
var readingParticipants = []domain.ParticipantIdentity{
	{ID: "q2-user-01", DisplayName: "ARAVIND KUMAR", AccessCode: "5B2E8F1A"},
	{ID: "q2-user-02", DisplayName: "DEEPIKA RAJ", AccessCode: "C9A34D7E"},
	{ID: "q2-user-03", DisplayName: "KARTHIK SUBRAM", AccessCode: "1F6B83C2"},
	{ID: "q2-user-04", DisplayName: "MEERA LAKSHMI", AccessCode: "A7D52E9F"},
	{ID: "q2-user-05", DisplayName: "VISHAL PRAKASH", AccessCode: "3E8C16D4"},
}
