package state

import "maps"

// MergeSession returns cur with every non-nil field of p applied.
func MergeSession(cur SessionData, p SessionPatch) SessionData {
	next := cur.clone()
	if p.Act != nil {
		next.Act = *p.Act
	}
	if p.ActData != nil {
		next.ActData = p.ActData
	}
	if p.Local != nil {
		next.Local = *p.Local
	}
	if p.Session != nil {
		next.Session = maps.Clone(p.Session)
	}
	if p.IsLoader != nil {
		next.IsLoader = *p.IsLoader
	}
	return next
}

// MergeModelConfig returns cur with every non-nil field of p applied.
// Selecting a model without naming a persona in the same patch drops the
// current persona.
func MergeModelConfig(cur ModelConfigData, p ModelConfigPatch) ModelConfigData {
	next := cur.clone()
	if p.Model != nil {
		next.Model = *p.Model
	}
	if p.ModelLabel != nil {
		next.ModelLabel = *p.ModelLabel
	}
	if p.MaxTokens != nil {
		next.MaxTokens = *p.MaxTokens
	}
	if p.UserModel != nil {
		next.UserModel = *p.UserModel
	}
	if p.TalkCount != nil {
		next.TalkCount = *p.TalkCount
	}
	if p.SystemMessage != nil {
		next.SystemMessage = *p.SystemMessage
	}
	if p.KID != nil {
		next.KID = *p.KID
	}
	if p.KName != nil {
		next.KName = *p.KName
	}
	if p.Gpts != nil {
		next.Gpts = clonePersonaPtr(p.Gpts)
	}
	if p.UUID != nil {
		id := *p.UUID
		next.UUID = &id
	}
	if p.Temperature != nil {
		next.Temperature = *p.Temperature
	}
	if p.TopP != nil {
		next.TopP = *p.TopP
	}
	if p.FrequencyPenalty != nil {
		next.FrequencyPenalty = *p.FrequencyPenalty
	}
	if p.PresencePenalty != nil {
		next.PresencePenalty = *p.PresencePenalty
	}
	if p.TTSVoice != nil {
		next.TTSVoice = *p.TTSVoice
	}
	if p.EnableKnowledgeGraph != nil {
		next.EnableKnowledgeGraph = *p.EnableKnowledgeGraph
	}

	if p.Model != nil && *p.Model != "" && p.Gpts == nil {
		next.Gpts = nil
	}
	return next
}

// MergeServerConfig returns cur with every non-nil field of p applied.
func MergeServerConfig(cur ServerConfigData, p ServerConfigPatch) ServerConfigData {
	next := cur
	if p.APIKey != nil {
		next.APIKey = *p.APIKey
	}
	if p.APIBaseURL != nil {
		next.APIBaseURL = *p.APIBaseURL
	}
	if p.MJServer != nil {
		next.MJServer = *p.MJServer
	}
	if p.MJAPISecret != nil {
		next.MJAPISecret = *p.MJAPISecret
	}
	if p.UploaderURL != nil {
		next.UploaderURL = *p.UploaderURL
	}
	if p.MJCDNWsrv != nil {
		next.MJCDNWsrv = *p.MJCDNWsrv
	}
	return next
}

// InsertPersona returns a new list with p at the front and every other entry
// sharing p's GID removed. list is not modified.
func InsertPersona(list []Persona, p Persona) []Persona {
	next := make([]Persona, 0, len(list)+1)
	next = append(next, p.Clone())
	for _, existing := range list {
		if existing.GID == p.GID {
			continue
		}
		next = append(next, existing)
	}
	return next
}
