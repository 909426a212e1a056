package conf

type Bootstrap struct {
	Server    *Server
	Data      *Data
	Editorial *Editorial
}

type Server struct {
	Http *HTTP
}

type HTTP struct {
	Addr    string
	Timeout string
}

// Data 会话级数据源，目前只有 API Key
type Data struct {
	Key *Key `json:"key"`
}

type Key struct {
	ApiKey string `json:"api_key"`
	Env    string `json:"env"` // api_key 为空时读取的环境变量名
}

type Editorial struct {
	Llm         *LLM         `json:"llm"`
	Keywords    []string     `json:"keywords"`
	Log         *Log         `json:"log"`
	Concurrency *Concurrency `json:"concurrency"`
}

type LLM struct {
	BaseUrl string `json:"base_url"`
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
