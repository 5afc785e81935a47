package catalog

const (
	programmingID   = "M-INFO-101174"
	gbiID           = "M-INFO-101170"
	la1ID           = "T-MATH-103215"
	hm1ID           = "T-MATH-102232"
	dtID            = "24007"
	algo1ID         = "M-INFO-100030"
	la2ID           = "T-MATH-102241"
	osID            = "M-INFO-101177"
	tgiID           = "M-INFO-101172"
	wtID            = "T-MATH-102244"
	infosecID       = "M-INFO-106015"
	formsysID       = "M-INFO-100799"
	cgID            = "M-INFO-100856"
	algo2ID         = "M-INFO-101173"
	itsecID         = "M-INFO-106315"
	roboticsID      = "M-INFO-100893"
	practicalSatID  = "M-INFO-102825"
	fotoBSID        = "M-INFO-100731"
	visualizationID = "M-INFO-100738"
)

// Sample returns the computer-science catalog of the Karlsruhe Bachelor/Master programme: seven Bachelor
// semesters with their compulsory modules pre-bound, four empty Master semesters and the elective Master
// modules left for the planner to place.
func Sample() (semesters []Semester, looseModules []Module) {
	semesters = []Semester{
		{
			Phases:     []Phase{Bachelor},
			Season:     Winter,
			MinCredits: 40,
			MaxCredits: 58,
			Modules: []Module{
				bachelorLecture(programmingID, "Programmieren", 10, Winter),
				bachelorLecture(gbiID, "GBI", 12, Winter),
				bachelorLecture(la1ID, "LA1", 18, Winter),
				bachelorLecture(hm1ID, "HM1", 18, Winter),
			},
		},
		{
			Phases:     []Phase{Bachelor},
			Season:     Summer,
			MinCredits: 50,
			MaxCredits: 58,
			Modules: []Module{
				bachelorLecture(algo1ID, "Algo 1", 12, Summer, gbiID),
				bachelorLecture("M-INFO-101175", "Softwaretechnik I", 12, Summer, programmingID),
				bachelorLecture(dtID, "DT", 12, Summer),
				bachelorLecture("T-MATH-102233", "HM2", 12, Summer),
				bachelorLecture(la2ID, "LA2", 10, Summer, la1ID),
			},
		},
		{
			Phases:     []Phase{Bachelor},
			Season:     Winter,
			MinCredits: 50,
			MaxCredits: 64,
			Modules: []Module{
				bachelorLecture("24502", "RO", 12, Winter, dtID),
				bachelorLecture(tgiID, "TGI", 12, Winter, algo1ID),
				bachelorLecture(osID, "OS", 12, Winter),
				bachelorLecture(wtID, "WT", 9, Winter),
				{ID: "M-INFO-101176", Name: "PSE", Type: LabType(), Credits: 14, Degree: BachelorDegree(), Seasons: []Season{Winter}},
			},
		},
		{
			Phases:     []Phase{Bachelor},
			Season:     Summer,
			MinCredits: 40,
			MaxCredits: 46,
			Modules: []Module{
				bachelorLecture(infosecID, "Infosec", 10, Summer),
				bachelorLecture("T-INFO-102015", "Rechnernetze", 8, Summer),
				bachelorLecture("T-INFO-101497", "DBS", 8, Summer),
				bachelorLecture("T-MATH-102242", "Numerik", 9, Summer),
				{ID: "OSDev", Name: "OSDev", Type: LabType(), Credits: 8, Degree: BachelorDegree(), Seasons: []Season{Summer}},
			},
		},
		{
			Phases:     []Phase{Bachelor, Master},
			Season:     Winter,
			MinCredits: 36,
			MaxCredits: 44,
			Modules: []Module{
				bachelorLecture("M-INFO-101179", "Propa", 12, Winter, tgiID),
				bachelorLecture("M-INFO-106014", "GKI", 10, Winter, la2ID, wtID),
				{ID: "proseminar", Name: "Proseminar", Type: SeminarType(true), Credits: 6, Degree: BachelorDegree(), Seasons: []Season{Winter, Summer}},
				{ID: formsysID, Name: "Formsys", Type: LectureType(true), Credits: 12, Degree: BachelorDegree(), Seasons: []Season{Winter}, Requires: []string{tgiID}},
			},
		},
		{
			Phases:     []Phase{Bachelor, Master},
			Season:     Summer,
			MinCredits: 40,
			MaxCredits: 60,
			Modules: []Module{
				bachelorLecture("M-INFO-101220", "AlgoPG", 10, Summer, algo1ID, tgiID),
			},
		},
		{Phases: []Phase{Bachelor, Master}, Season: Winter, MinCredits: 10, MaxCredits: 25},
		{Phases: []Phase{Master}, Season: Summer, MinCredits: 36, MaxCredits: 64},
		{Phases: []Phase{Master}, Season: Winter, MinCredits: 40, MaxCredits: 64},
		{Phases: []Phase{Master}, Season: Summer, MinCredits: 40, MaxCredits: 64},
		{Phases: []Phase{Master}, Season: Winter, MinCredits: 40, MaxCredits: 64},
	}

	looseModules = []Module{
		masterModule(cgID, "Computergrafik", LectureType(true), 12, Winter, false, []string{la2ID}, ComputerGraphics),
		masterModule(algo2ID, "Algo II", LectureType(true), 12, Winter, false, []string{algo1ID}, Theoretics, Algorithms),
		masterModule(itsecID, "ITSec", LectureType(true), 12, Winter, false, []string{infosecID}, Security),
		masterModule(roboticsID, "Robotik", LectureType(true), 12, Winter, false, []string{la2ID}, Robotics),
		masterModule("M-INFO-100841", "Formsys2: Theorie", LectureType(false), 10, Summer, false, []string{formsysID}, Theoretics),
		masterModule("M-INFO-100744", "Formsys2: Anwendung", LectureType(false), 10, Summer, false, []string{formsysID}, Theoretics, SoftwareEngineering),
		masterModule(practicalSatID, "SAT Solving in der Praxis", LectureType(false), 10, Unspecified, false, []string{formsysID}, Theoretics),
		masterModule("M-INFO-106086", "Algorithm Engineering", SeminarType(false), 8, Unspecified, false, []string{algo2ID}, Theoretics, Algorithms, Parallelism),
		masterModule("M-INFO-100762", "Algorithmische Graphentheorie", LectureType(false), 10, Unspecified, false, []string{algo2ID}, Theoretics, Algorithms),
		masterModule("M-INFO-106256", "Constructive Logic", LectureType(false), 10, Summer, true, []string{formsysID}, Theoretics, SoftwareEngineering),
		masterModule("M-INFO-106102", "Logical Foundations of Cyber-Physical Systems", LectureType(false), 10, Winter, true, []string{formsysID}, Theoretics, SoftwareEngineering),
		masterModule("M-INFO-106644", "Fine-grained Complexity Theory and Algorithms", LectureType(false), 12, Unspecified, false, nil, Theoretics, Algorithms),
		masterModule("M-INFO-105621", "Parametrisierte Algorithmen", LectureType(false), 12, Unspecified, true, []string{algo1ID}, Theoretics, Algorithms),
		masterModule("M-INFO-100796", "Parallele Algorithmen", LectureType(false), 10, Winter, false, []string{algo2ID}, Algorithms, Parallelism),
		masterModule("M-INFO-106645", "Seminar: Fine-grained Complexity Theory and Algorithms", SeminarType(false), 8, Unspecified, false, nil, Theoretics, Algorithms),
		masterModule("M-INFO-106085", "Fortgeschrittene Themen zu SAT Solving", SeminarType(false), 6, Winter, false, []string{practicalSatID}, Theoretics, Algorithms),
		masterModule("M-INFO-100839", "Unscharfe Mengen", LectureType(false), 12, Summer, false, []string{formsysID}, Theoretics, Robotics, ArtificialIntelligence),
		masterModule("M-INFO-100031", "Routenplanung", LectureType(false), 10, Summer, true, []string{algo2ID}, Algorithms),
		masterModule("M-INFO-106469", "Randomisierte Algorithmik", LectureType(false), 10, Winter, false, []string{wtID, algo2ID}, Theoretics, Algorithms),
		masterModule("M-INFO-105584", "Theoretische Grundlagen der Kryptographie", LectureType(false), 10, Winter, false, []string{itsecID}, Security),
		masterModule("M-INFO-105337", "Kryptoanalyse", SeminarType(false), 6, Summer, false, []string{itsecID}, Security),
		masterModule("M-INFO-103166", "Appsec", LabType(), 8, Winter, true, nil, Security),
		masterModule("M-INFO-106685", "CG2", LectureType(false), 10, Summer, false, []string{cgID}, ComputerGraphics),
		masterModule(fotoBSID, "FotoBS", LectureType(false), 10, Winter, true, []string{cgID}, ComputerGraphics),
		masterModule(visualizationID, "Visualisierung", LectureType(false), 10, Summer, false, []string{cgID}, ComputerGraphics),
		{
			ID: "M-INFO-106686", Name: "Scientific Visualization", Type: LabType(), Credits: 12,
			Degree:   MasterDegree(ComputerGraphics),
			Seasons:  []Season{Winter, Summer},
			Requires: []string{visualizationID, cgID},
		},
		{
			ID: "M-INFO-106687", Name: "Rendering in CGI", Type: LabType(), Credits: 12,
			Degree:   MasterDegree(ComputerGraphics),
			Seasons:  []Season{Winter, Summer},
			Requires: []string{cgID, fotoBSID},
		},
		masterModule("M-INFO-108867", "Virtuelle Systeme", LectureType(false), 6, Winter, true, []string{osID}, Security, SystemArchitecture),
		masterModule("M-INFO-101540", "Seminar Betriebssysteme", SeminarType(false), 6, Unspecified, false, []string{osID}, SystemArchitecture),
		masterModule("M-INFO-100849", "Seminar Betriebssysteme für Fortgeschrittene", SeminarType(false), 12, Summer, false, []string{osID}, SystemArchitecture),
	}

	return semesters, looseModules
}

// SampleCatalog builds the Sample catalog
func SampleCatalog() (*Catalog, error) {
	return Build(Sample())
}

func bachelorLecture(id, name string, credits int, season Season, requires ...string) Module {
	return Module{
		ID:       id,
		Name:     name,
		Type:     LectureType(false),
		Credits:  credits,
		Degree:   BachelorDegree(),
		Requires: requires,
		Seasons:  []Season{season},
	}
}

func masterModule(id, name string, moduleType ModuleType, credits int, season Season, forced bool, requires []string, specialities ...Speciality) Module {
	return Module{
		ID:       id,
		Name:     name,
		Type:     moduleType,
		Credits:  credits,
		Degree:   MasterDegree(specialities...),
		Requires: requires,
		Seasons:  []Season{season},
		Forced:   forced,
	}
}
