package channel

type Channel string

const BotCacheEventsChannel Channel = "trustcloak:botcache:events"
