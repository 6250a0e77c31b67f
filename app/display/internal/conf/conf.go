package conf

type Bootstrap struct {
	Server  *Server
	Data    *Data
	Planner *Planner
}

type Server struct {
	Http *HTTP
}

type HTTP struct {
	Addr    string
	Timeout string
}

type Data struct {
	Database *Database
}

// Database Driver 为空或 memory 时使用内存存储
type Database struct {
	Driver string
	Source string
}

type Planner struct {
	Llm         *LLM         `json:"llm"`
	Log         *Log         `json:"log"`
	Concurrency *Concurrency `json:"concurrency"`
	Budget      *Budget      `json:"budget"`
	Feedback    *Feedback    `json:"feedback"`
	VoteTopics  []string     `json:"vote_topics"`
	Experts     []*Expert    `json:"experts"`
}

type LLM struct {
	BaseUrl string `json:"base_url"`
	ApiKey  string `json:"api_key"`
	Model   string `json:"model"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

type Concurrency struct {
	Qps int32 `json:"qps"`
	Rpm int32 `json:"rpm"`
}

type Budget struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type Feedback struct {
	MinEntries         int32   `json:"min_entries"`
	TargetResponses    int32   `json:"target_responses"`
	TargetSatisfaction float64 `json:"target_satisfaction"`
}

type Expert struct {
	Name    string  `json:"name"`
	Field   string  `json:"field"`
	Opinion string  `json:"opinion"`
	Score   float64 `json:"score"`
	Date    string  `json:"date"`
}
