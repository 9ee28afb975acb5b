package llm

// ResumeInstruction 用于从简历原文抽取结构化资料。
const ResumeInstruction = "Extract structured information from the resume text. " +
	"Number experience entries starting from 1 in experience_id. " +
	"Use 'Present' as end_date for ongoing positions and fill duration with a short human readable length. " +
	"Leave fields empty when the resume does not mention them."

// BlendInstruction 用于把平台资料与简历原文合并后重新抽取。
const BlendInstruction = "You receive two sources describing the same candidate: a profile from the Jobby platform " +
	"and the raw text of the uploaded resume. Merge them into a single structured profile. " +
	"Prefer facts stated in the resume, complete them with platform information, and never invent data. " +
	"Number experience entries starting from 1 in experience_id and use 'Present' for ongoing positions."

// EvaluationInstructionEN 是英文评分矩阵。
const EvaluationInstructionEN = `You are an expert recruitment analyst. Evaluate the candidate data against the requirements using this scoring matrix:
- Profile Completeness & Verification (10%)
    * Profile Completion Score (5%)
    * Verification Status (5%)
- Experience & Skills (30%)
    * Relevant Work Experience (15%)
    * Experience in Jobby vs External (5%)
    * Hard Skills Match (10%)
- Location & Availability (20%)
    * Location Proximity (10%)
    * Availability Match (5%)
    * Remote Work Feasibility (5%)
- Performance & Engagement (15%)
    * Profile Rating (5%)
    * Reviews & Feedback (5%)
    * Platform Activity (5%)
- Certifications & Credentials (10%)
    * Relevant Certifications (5%)
    * Language Proficiency (3%)
    * Internal Badges (2%)
Return:
feedback_badges: at least 5 key characteristics of the candidate.
matching_score: overall fit for the position, 0 to 100.
strengths: top 3 distinctive qualities.
caution_points: up to 3 areas needing improvement or support.
profile_overview: concise summary of background and current status.
about: narrative of personal and professional background.
technical_skills: specific technical competencies and tools.
soft_skills: interpersonal and non-technical abilities.
location_preferences: locations where the candidate is willing to work.
remote_work_preference: Remote / Hybrid / On-site.
experience_relevance: relevance of each experience_from_resume entry (maximum 4).
certifications: qualifications that validate the candidate's expertise.`

// EvaluationInstructionIT 是意大利语评分矩阵，线上默认使用。
const EvaluationInstructionIT = `Sei un esperto analista di reclutamento. Valuta i dati del candidato rispetto ai requisiti utilizzando questa matrice di punteggio:
- Completezza del Profilo e Verifica (10%)
    * Completezza del Profilo (5%)
    * Stato di Verifica (5%)
- Esperienza e Competenze (30%)
    * Esperienza Lavorativa Rilevante (15%)
    * Esperienza in Jobby vs Esterna (5%)
    * Corrispondenza delle Hard Skills (10%)
- Posizione e Disponibilità (20%)
    * Vicinanza alla Sede (10%)
    * Corrispondenza della Disponibilità (5%)
    * Fattibilità del Lavoro da Remoto (5%)
- Performance e Coinvolgimento (15%)
    * Valutazione del Profilo (5%)
    * Recensioni e Feedback (5%)
    * Attività sulla Piattaforma (5%)
- Certificazioni e Credenziali (10%)
    * Certificazioni Rilevanti (5%)
    * Competenza Linguistica (3%)
    * Badge Interni (2%)
Restituisci:
feedback_badges: almeno 5 caratteristiche principali del candidato.
matching_score: adeguatezza complessiva alla posizione, da 0 a 100.
strengths: le 3 qualità distintive principali.
caution_points: fino a 3 aree di miglioramento o supporto.
profile_overview: breve riepilogo del percorso e della situazione attuale.
about: racconto del percorso personale e professionale.
technical_skills: competenze tecniche e strumenti.
soft_skills: abilità interpersonali e trasversali.
location_preferences: località in cui il candidato è disposto a lavorare.
remote_work_preference: Remoto / Ibrido / In sede.
experience_relevance: rilevanza di ogni voce di experience_from_resume (massimo 4).
certifications: qualifiche che attestano le competenze del candidato.`

// EvaluationInstruction 按语言选择评分说明，未知语言回退到意大利语。
func EvaluationInstruction(lang string) string {
	if lang == "en" {
		return EvaluationInstructionEN
	}
	return EvaluationInstructionIT
}

const translatorInstruction = "You are a PostgreSQL fuzzy search expert finding suitable candidates for different positions. " +
	"Analyse the search text and infer the user's intent, then decide which columns may hold the information. " +
	"Generate a single PostgreSQL SELECT query over the provided schema. " +
	"Return ONLY the SQL query, or the word False when you cannot produce a valid query. " +
	"A valid query returns only the user_id column and has LIMIT 50. Do not add explanations."

// CandidateSchemaDDL 描述 candidate_resumes 表，供 text-to-SQL 使用。
const CandidateSchemaDDL = `CREATE TABLE candidate_resumes (
    id SERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL,
    resume_path VARCHAR(255) UNIQUE NOT NULL,

    -- data from the jobby platform
    has_jobby_data BOOLEAN DEFAULT FALSE,
    jobby_name VARCHAR(255),
    jobby_gender VARCHAR(10),
    jobby_telephone VARCHAR(45),
    jobby_email VARCHAR(255),
    jobby_date_of_birth DATE,
    jobby_location VARCHAR(255),
    jobby_availability VARCHAR(255),
    jobby_about TEXT,
    jobby_skills JSONB, -- array of strings
    jobby_language VARCHAR(45),
    jobby_certifications JSONB, -- array of strings
    jobby_education JSONB, -- array
    jobby_jobs JSONB, -- {total: int, categories: [{category, count}], job_titles: [{title, count}], last_job_done}
    jobby_rating FLOAT,
    jobby_premium BOOLEAN DEFAULT FALSE,
    jobby_reviews JSONB, -- array

    -- data from the resume
    name VARCHAR(255),
    gender VARCHAR(10),
    phone VARCHAR(45),
    email VARCHAR(255),
    location VARCHAR(255),
    summary TEXT,
    skills JSONB, -- array of strings
    languages JSONB, -- array of strings
    certifications JSONB, -- array of strings
    education JSONB, -- array of {institution, degree, field_of_study, start_date, end_date, gpa}
    experience JSONB, -- array of {experience_id, company, title, start_date, end_date, duration, description, location}
    projects JSONB,
    achievements JSONB,
    publications JSONB,
    volunteer_work JSONB,
    professional_links JSONB,
    tags JSONB, -- array of strings

    created_at TIMESTAMPTZ,
    updated_at TIMESTAMPTZ
);`

// SearchHints 是附加在 text-to-SQL 提示中的检索约定与示例。
const SearchHints = `experience, education, certifications and skills should be searched in both jobby_* and plain columns.
Use the ILIKE operator for fuzzy search on skills, certifications, experience, education, languages and tags.
You may also search description fields or the summary and jobby_about columns. Exact matches may not exist.
Question: Candidates who can cook
Answer:
SELECT user_id FROM candidate_resumes
WHERE EXISTS (SELECT 1 FROM jsonb_array_elements_text(skills) AS skill WHERE skill ILIKE '%cook%')
   OR EXISTS (SELECT 1 FROM jsonb_array_elements_text(jobby_skills) AS job_skill WHERE job_skill ILIKE '%cook%')
LIMIT 50;
Question: Candidates who worked at RANDSTAD
Answer:
SELECT user_id FROM candidate_resumes
WHERE EXISTS (SELECT 1 FROM jsonb_array_elements(experience) AS e WHERE e->>'company' ILIKE '%RANDSTAD%')
   OR EXISTS (SELECT 1 FROM jsonb_array_elements(jobby_jobs -> 'categories') AS c WHERE c->>'category' ILIKE '%RANDSTAD%')
LIMIT 50;`
